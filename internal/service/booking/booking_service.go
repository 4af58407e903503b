package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/dkuznetsov91/busbooking/internal/kafka"
	"github.com/dkuznetsov91/busbooking/internal/normalize"
	"github.com/dkuznetsov91/busbooking/internal/policy"
	"github.com/dkuznetsov91/busbooking/internal/repository"
	"github.com/google/uuid"
)

// ErrPolicyViolation wraps a rejected precondition: the caller asked for an
// action the policy engine marked ineligible. The engine message follows
// the sentinel so handlers can surface it.
var ErrPolicyViolation = errors.New("not allowed by booking policy")

// ErrInvalidRecord is returned when an imported upstream record lacks the
// fields needed to identify a booking.
var ErrInvalidRecord = errors.New("invalid booking record")

type BookingUseCase interface {
	GetBooking(ctx context.Context, pnr string) (*BookingView, error)
	ListBookings(ctx context.Context, email string) ([]BookingView, error)
	ImportBooking(ctx context.Context, raw normalize.RawBooking) (*BookingView, error)
	RequestCancellation(ctx context.Context, pnr, reason string) (*domain.CancellationRequest, error)
	ApproveCancellation(ctx context.Context, requestID string) (*domain.CancellationRequest, error)
	RejectCancellation(ctx context.Context, requestID string) (*domain.CancellationRequest, error)
	CheckIn(ctx context.Context, pnr string) (*domain.Booking, error)
	CompleteDepartedBookings(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireCancellationLock(ctx context.Context, pnr string, ttl time.Duration) (bool, error)
	ReleaseCancellationLock(ctx context.Context, pnr string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingView is a booking snapshot together with every derived result the
// UI renders. The derived fields are recomputed on every call, never stored.
type BookingView struct {
	Booking       domain.Booking
	DisplayStatus domain.DisplayStatus
	CheckIn       domain.CheckInInfo
	Cancellation  domain.CancellationInfo
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	policyCfg          policy.Config
	clock              policy.Clock
	submitLockTTL      time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithSubmitLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if ttl > 0 {
			s.submitLockTTL = ttl
		}
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	policyCfg policy.Config,
	clock policy.Clock,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		cache:         cache,
		producer:      producer,
		eventsTopic:   eventsTopic,
		policyCfg:     policyCfg,
		clock:         clock,
		submitLockTTL: 5 * time.Minute,
	}
	if service.clock == nil {
		service.clock = policy.RealClock()
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) view(b domain.Booking, now time.Time) BookingView {
	status := policy.Resolve(b, now)
	return BookingView{
		Booking:       b,
		DisplayStatus: status,
		CheckIn:       policy.EvaluateCheckIn(b, status, s.policyCfg.CheckIn, now),
		Cancellation:  policy.EvaluateCancellation(b, status, s.policyCfg.Cancellation, now),
	}
}

func (s *BookingService) GetBooking(ctx context.Context, pnr string) (*BookingView, error) {
	b, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}
	v := s.view(*b, s.clock.Now())
	return &v, nil
}

func (s *BookingService) ListBookings(ctx context.Context, email string) ([]BookingView, error) {
	bookings, err := s.bookings.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, s.view(b, now))
	}
	return views, nil
}

// ImportBooking accepts a loosely-typed record from the upstream booking
// service, normalizes it to the canonical shape and stores it. The stored
// snapshot comes back as a derived view.
func (s *BookingService) ImportBooking(ctx context.Context, raw normalize.RawBooking) (*BookingView, error) {
	b := normalize.Booking(raw)
	if b.PNR == "" {
		return nil, fmt.Errorf("%w: booking reference is required", ErrInvalidRecord)
	}

	stored, err := s.bookings.Upsert(ctx, &b)
	if err != nil {
		return nil, err
	}
	v := s.view(*stored, s.clock.Now())
	return &v, nil
}

func (s *BookingService) RequestCancellation(ctx context.Context, pnr, reason string) (*domain.CancellationRequest, error) {
	b, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status := policy.Resolve(*b, now)
	info := policy.EvaluateCancellation(*b, status, s.policyCfg.Cancellation, now)
	if !info.Eligible {
		return nil, fmt.Errorf("%w: %s", ErrPolicyViolation, info.Message)
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireCancellationLock(ctx, pnr, s.submitLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, repository.ErrCancellationPending
		}
		locked = true
	}

	req := &domain.CancellationRequest{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		PNR:           b.PNR,
		Reason:        reason,
		RefundPercent: info.RefundPercent,
		RefundAmount:  policy.RefundAmount(b.TotalAmount, info.RefundPercent),
		FeeAmount:     policy.CancellationFee(b.TotalAmount, info.RefundPercent),
	}
	if err := s.bookings.CreateCancellationRequest(ctx, req); err != nil {
		if locked {
			_ = s.cache.ReleaseCancellationLock(ctx, pnr)
		}
		return nil, err
	}

	if err := s.publish(ctx, "cancellation_requested", b.Email, req); err != nil {
		log.Printf("publish cancellation_requested for %s: %v", req.PNR, err)
	}
	return req, nil
}

func (s *BookingService) ApproveCancellation(ctx context.Context, requestID string) (*domain.CancellationRequest, error) {
	return s.resolveCancellation(ctx, requestID, domain.CancellationApproved, "cancellation_approved")
}

func (s *BookingService) RejectCancellation(ctx context.Context, requestID string) (*domain.CancellationRequest, error) {
	return s.resolveCancellation(ctx, requestID, domain.CancellationRejected, "cancellation_rejected")
}

func (s *BookingService) resolveCancellation(ctx context.Context, requestID string, status domain.CancellationStatus, eventType string) (*domain.CancellationRequest, error) {
	req, err := s.bookings.ResolveCancellationRequest(ctx, requestID, status)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.ReleaseCancellationLock(ctx, req.PNR)
	}

	email := ""
	if b, err := s.bookings.GetByPNR(ctx, req.PNR); err == nil {
		email = b.Email
	}
	if err := s.publish(ctx, eventType, email, req); err != nil {
		log.Printf("publish %s for %s: %v", eventType, req.PNR, err)
	}
	return req, nil
}

func (s *BookingService) CheckIn(ctx context.Context, pnr string) (*domain.Booking, error) {
	b, err := s.bookings.GetByPNR(ctx, pnr)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	status := policy.Resolve(*b, now)
	info := policy.EvaluateCheckIn(*b, status, s.policyCfg.CheckIn, now)
	if !info.Eligible {
		return nil, fmt.Errorf("%w: %s", ErrPolicyViolation, info.Message)
	}

	updated, err := s.bookings.SetCheckedIn(ctx, pnr)
	if err != nil {
		return nil, err
	}
	if err := s.publishBooking(ctx, "checked_in", updated); err != nil {
		log.Printf("publish checked_in for %s: %v", updated.PNR, err)
	}
	return updated, nil
}

// CompleteDepartedBookings persists the completed status for bookings whose
// departure has passed. The worker runs this on a fixed cadence.
func (s *BookingService) CompleteDepartedBookings(ctx context.Context) ([]domain.Booking, error) {
	completed, err := s.bookings.CompleteDepartedBefore(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	for _, b := range completed {
		if err := s.publishBooking(ctx, "booking_completed", &b); err != nil {
			log.Printf("publish booking_completed for %s: %v", b.PNR, err)
		}
	}
	return completed, nil
}

func (s *BookingService) publish(ctx context.Context, eventType, email string, req *domain.CancellationRequest) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:          eventType,
		PNR:           req.PNR,
		Status:        string(req.Status),
		Email:         email,
		RefundPercent: req.RefundPercent,
		RefundAmount:  req.RefundAmount.StringFixed(2),
		FeeAmount:     req.FeeAmount.StringFixed(2),
		At:            s.clock.Now(),
	}
	return s.send(ctx, req.PNR, event)
}

func (s *BookingService) publishBooking(ctx context.Context, eventType string, b *domain.Booking) error {
	if s.producer == nil || s.eventsTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:   eventType,
		PNR:    b.PNR,
		Status: string(b.Status),
		Email:  b.Email,
		At:     s.clock.Now(),
	}
	return s.send(ctx, b.PNR, event)
}

func (s *BookingService) send(ctx context.Context, key string, event kafka.BookingEvent) error {
	if err := s.producer.Publish(ctx, s.eventsTopic, key, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, key, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)

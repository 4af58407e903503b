package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrCancellationPending is returned when a booking already has an
	// outstanding cancellation request. At most one pending request may
	// exist per booking.
	ErrCancellationPending = errors.New("cancellation request already submitted")
	// ErrRequestNotPending is returned when an operator decision races a
	// request that has already been resolved.
	ErrRequestNotPending = errors.New("cancellation request is not pending")
)

type BookingRepository interface {
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Upsert(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	SetCheckedIn(ctx context.Context, pnr string) (*domain.Booking, error)
	CreateCancellationRequest(ctx context.Context, req *domain.CancellationRequest) error
	GetCancellationRequest(ctx context.Context, id string) (*domain.CancellationRequest, error)
	ResolveCancellationRequest(ctx context.Context, id string, status domain.CancellationStatus) (*domain.CancellationRequest, error)
	CompleteDepartedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, pnr, status, payment_status, travel_date,
	COALESCE(departure_time, ''), COALESCE(arrival_time, ''),
	COALESCE(bus_number, ''), route_from, route_to, passenger_name, email,
	cancellation_requested, COALESCE(cancellation_status, ''),
	total_amount, checked_in, created_at, updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PNR, &b.Status, &b.PaymentStatus, &b.TravelDate,
		&b.DepartureTime, &b.ArrivalTime, &b.BusNumber, &b.RouteFrom, &b.RouteTo,
		&b.PassengerName, &b.Email, &b.CancellationRequested, &b.CancellationStatus,
		&b.TotalAmount, &b.CheckedIn, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, pnr)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE email=$1 ORDER BY travel_date DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// Upsert stores a booking snapshot received from the upstream booking
// service, keyed by PNR. Cancellation and check-in state owned by this
// service is preserved on conflict.
func (r *PGBookingRepository) Upsert(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO bookings
		(pnr, status, payment_status, travel_date, departure_time, arrival_time,
		 bus_number, route_from, route_to, passenger_name, email, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (pnr) DO UPDATE SET
			status=EXCLUDED.status, payment_status=EXCLUDED.payment_status,
			travel_date=EXCLUDED.travel_date, departure_time=EXCLUDED.departure_time,
			arrival_time=EXCLUDED.arrival_time, bus_number=EXCLUDED.bus_number,
			route_from=EXCLUDED.route_from, route_to=EXCLUDED.route_to,
			passenger_name=EXCLUDED.passenger_name, email=EXCLUDED.email,
			total_amount=EXCLUDED.total_amount, updated_at=now()
		RETURNING `+bookingColumns,
		b.PNR, b.Status, b.PaymentStatus, b.TravelDate, b.DepartureTime, b.ArrivalTime,
		b.BusNumber, b.RouteFrom, b.RouteTo, b.PassengerName, b.Email, b.TotalAmount)
	return scanBooking(row)
}

func (r *PGBookingRepository) SetCheckedIn(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, checked_in=true, updated_at=now()
		WHERE pnr=$2 RETURNING `+bookingColumns, domain.StatusCheckedIn, pnr)
	return scanBooking(row)
}

func (r *PGBookingRepository) CreateCancellationRequest(ctx context.Context, req *domain.CancellationRequest) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Conditional insert enforces at most one pending request per booking.
	err = tx.QueryRow(ctx, `INSERT INTO cancellation_requests (id, booking_id, pnr, status, reason, refund_percent, refund_amount, fee_amount)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8
		WHERE NOT EXISTS (
			SELECT 1 FROM cancellation_requests WHERE booking_id=$2 AND status=$4
		)
		RETURNING created_at, updated_at`,
		req.ID, req.BookingID, req.PNR, domain.CancellationPending, req.Reason,
		req.RefundPercent, req.RefundAmount, req.FeeAmount).
		Scan(&req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCancellationPending
		}
		return err
	}
	req.Status = domain.CancellationPending

	if _, err := tx.Exec(ctx, `UPDATE bookings SET cancellation_requested=true, cancellation_status=$1, updated_at=now() WHERE id=$2`,
		domain.CancellationPending, req.BookingID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const cancellationColumns = `id, booking_id, pnr, status, COALESCE(reason, ''),
	refund_percent, refund_amount, fee_amount, created_at, updated_at`

func scanCancellation(row pgx.Row) (*domain.CancellationRequest, error) {
	var cr domain.CancellationRequest
	if err := row.Scan(&cr.ID, &cr.BookingID, &cr.PNR, &cr.Status, &cr.Reason,
		&cr.RefundPercent, &cr.RefundAmount, &cr.FeeAmount, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}

func (r *PGBookingRepository) GetCancellationRequest(ctx context.Context, id string) (*domain.CancellationRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cancellationColumns+` FROM cancellation_requests WHERE id=$1`, id)
	return scanCancellation(row)
}

// ResolveCancellationRequest applies an operator decision. The conditional
// update serializes approve/reject: only a pending request transitions, a
// second decision gets ErrRequestNotPending. Approval also cancels the
// booking row.
func (r *PGBookingRepository) ResolveCancellationRequest(ctx context.Context, id string, status domain.CancellationStatus) (*domain.CancellationRequest, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE cancellation_requests SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3 RETURNING `+cancellationColumns,
		status, id, domain.CancellationPending)
	cr, err := scanCancellation(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	if status == domain.CancellationApproved {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, cancellation_status=$2, updated_at=now() WHERE id=$3`,
			domain.StatusCancelled, status, cr.BookingID); err != nil {
			return nil, err
		}
	} else {
		if _, err := tx.Exec(ctx, `UPDATE bookings SET cancellation_status=$1, updated_at=now() WHERE id=$2`,
			status, cr.BookingID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return cr, nil
}

func (r *PGBookingRepository) CompleteDepartedBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE status IN ($2, $3)
		AND departure_time ~ '^[0-9]{2}:[0-9]{2}$'
		AND travel_date + departure_time::time <= $4
		RETURNING `+bookingColumns,
		domain.StatusCompleted, domain.StatusConfirmed, domain.StatusCheckedIn, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *b)
	}
	return completed, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)

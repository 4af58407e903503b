package trips

import (
	"context"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/dkuznetsov91/busbooking/internal/policy"
	"github.com/dkuznetsov91/busbooking/internal/repository"
)

type TripUseCase interface {
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	Progress(ctx context.Context, id int64) (*domain.JourneyProgress, error)
}

type TripCache interface {
	GetTrips(ctx context.Context) ([]domain.Trip, error)
	SetTrips(ctx context.Context, trips []domain.Trip) error
}

type TripService struct {
	repo  repository.TripRepository
	cache TripCache
	clock policy.Clock
}

func NewTripService(repo repository.TripRepository, cache TripCache, clock policy.Clock) *TripService {
	if clock == nil {
		clock = policy.RealClock()
	}
	return &TripService{repo: repo, cache: cache, clock: clock}
}

func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTrips(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrips(ctx, trips)
	}
	return trips, nil
}

func (s *TripService) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TripService) Progress(ctx context.Context, id int64) (*domain.JourneyProgress, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	progress := policy.TrackProgress(*trip, s.clock.Now())
	return &progress, nil
}

var _ TripUseCase = (*TripService)(nil)

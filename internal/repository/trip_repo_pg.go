package repository

import (
	"context"
	"errors"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepository interface {
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
}

type PGTripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) TripRepository {
	return &PGTripRepository{db: db}
}

const tripColumns = `id, route_from, route_to, COALESCE(bus_number, ''), travel_date,
	COALESCE(departure_time, ''), COALESCE(arrival_time, ''),
	COALESCE(estimated_arrival_time, ''), schedule_status,
	seats_total, seats_left, fare_amount, created_at, updated_at`

func scanTrip(row pgx.Row) (*domain.Trip, error) {
	var t domain.Trip
	if err := row.Scan(&t.ID, &t.RouteFrom, &t.RouteTo, &t.BusNumber, &t.TravelDate,
		&t.DepartureTime, &t.ArrivalTime, &t.EstimatedArrivalTime, &t.ScheduleStatus,
		&t.SeatsTotal, &t.SeatsLeft, &t.FareAmount, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PGTripRepository) List(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tripColumns+` FROM trips
		WHERE travel_date >= current_date ORDER BY travel_date, departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (r *PGTripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id=$1`, id)
	return scanTrip(row)
}

var _ TripRepository = (*PGTripRepository)(nil)

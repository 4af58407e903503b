package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleBoarding   ScheduleStatus = "boarding"
	ScheduleDeparted   ScheduleStatus = "departed"
	ScheduleInProgress ScheduleStatus = "in_progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleArrived    ScheduleStatus = "arrived"
)

// Trip is a scheduled bus departure. EstimatedArrivalTime is the live
// estimate and takes precedence over the static ArrivalTime when set.
type Trip struct {
	ID                   int64
	RouteFrom            string
	RouteTo              string
	BusNumber            string
	TravelDate           time.Time
	DepartureTime        string
	ArrivalTime          string
	EstimatedArrivalTime string
	ScheduleStatus       ScheduleStatus
	SeatsTotal           int
	SeatsLeft            int
	FareAmount           decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

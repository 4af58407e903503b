package policy

import (
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
)

// TrackProgress derives the journey completion fraction for a trip at the
// given instant. The authoritative schedule status wins over the clock:
// a trip still marked scheduled or boarding has not started no matter how
// late it is, and a trip marked completed or arrived is done. Otherwise
// progress is linear between departure and the estimated arrival, with an
// overnight arrival rolled to the next day.
func TrackProgress(t domain.Trip, now time.Time) domain.JourneyProgress {
	switch t.ScheduleStatus {
	case domain.ScheduleScheduled, domain.ScheduleBoarding:
		return domain.JourneyProgress{Phase: domain.PhaseNotStarted}
	}

	done := t.ScheduleStatus == domain.ScheduleCompleted || t.ScheduleStatus == domain.ScheduleArrived

	dep, ok := combineDateTime(t.TravelDate, t.DepartureTime)
	if !ok {
		if done {
			return domain.JourneyProgress{Phase: domain.PhaseCompleted, Percent: 100}
		}
		return domain.JourneyProgress{Phase: domain.PhaseNotStarted}
	}

	arrClock := t.EstimatedArrivalTime
	if arrClock == "" {
		arrClock = t.ArrivalTime
	}
	arr, ok := arrivalAfter(dep, t.TravelDate, arrClock)
	if !ok {
		if done {
			return domain.JourneyProgress{Phase: domain.PhaseCompleted, Percent: 100}
		}
		return domain.JourneyProgress{Phase: domain.PhaseNotStarted}
	}

	if done || now.After(arr) {
		return domain.JourneyProgress{Phase: domain.PhaseCompleted, Percent: 100}
	}
	if now.Before(dep) {
		return domain.JourneyProgress{Phase: domain.PhaseNotStarted}
	}

	total := arr.Sub(dep)
	elapsed := now.Sub(dep)
	percent := 100 * float64(elapsed) / float64(total)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	remaining := arr.Sub(now)
	return domain.JourneyProgress{
		Phase:            domain.PhaseInProgress,
		Percent:          percent,
		RemainingHours:   int(remaining.Hours()),
		RemainingMinutes: int(remaining.Minutes()) % 60,
	}
}

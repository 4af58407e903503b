package policy

import (
	"fmt"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
)

// EvaluateCheckIn applies the online check-in rules for a booking at the
// given instant. Rules run in order, first applicable wins. A pending
// cancellation request blocks check-in regardless of timing.
func EvaluateCheckIn(b domain.Booking, status domain.DisplayStatus, cfg CheckInConfig, now time.Time) domain.CheckInInfo {
	if b.CheckedIn || b.Status == domain.StatusCheckedIn {
		return domain.CheckInInfo{
			State:   domain.CheckInAlreadyDone,
			Message: "Already checked in",
		}
	}
	if b.CancellationRequested && b.CancellationStatus == domain.CancellationPending {
		return domain.CheckInInfo{
			State:   domain.CheckInCancellationPending,
			Message: "Check-in is disabled while a cancellation request is pending",
		}
	}
	if !cfg.Enabled {
		return domain.CheckInInfo{
			State:   domain.CheckInDisabled,
			Message: "Check-in is currently unavailable",
		}
	}
	if status != domain.DisplayUpcoming {
		return domain.CheckInInfo{
			State:   domain.CheckInNotUpcoming,
			Message: fmt.Sprintf("Check-in is not available for %s bookings", status),
		}
	}
	if b.PaymentStatus != domain.PaymentPaid {
		return domain.CheckInInfo{
			State:   domain.CheckInPaymentRequired,
			Message: "Complete payment to check in",
		}
	}
	dep, ok := departureAt(b)
	if !ok {
		return domain.CheckInInfo{
			State:   domain.CheckInMissingInfo,
			Message: "Missing travel information",
		}
	}

	untilDep := dep.Sub(now)
	if untilDep <= 0 {
		return domain.CheckInInfo{
			State:   domain.CheckInDeparted,
			Message: "Departure time has passed",
		}
	}

	start := time.Duration(cfg.StartHoursBefore) * time.Hour
	end := time.Duration(cfg.EndHoursBefore) * time.Hour
	switch {
	case untilDep > start:
		untilOpen := untilDep - start
		return domain.CheckInInfo{
			State:              domain.CheckInNotOpenYet,
			Message:            fmt.Sprintf("Check-in opens in %s", formatCountdown(untilOpen)),
			TimeUntilDeparture: untilDep,
			TimeUntilOpen:      untilOpen,
		}
	case untilDep <= end:
		return domain.CheckInInfo{
			State:              domain.CheckInClosed,
			Message:            fmt.Sprintf("Check-in has closed, bus departs in %d minutes", int(untilDep.Minutes())),
			TimeUntilDeparture: untilDep,
		}
	default:
		return domain.CheckInInfo{
			Eligible:           true,
			State:              domain.CheckInOpen,
			Message:            fmt.Sprintf("Check-in is open, departure in %s", formatCountdown(untilDep)),
			TimeUntilDeparture: untilDep,
		}
	}
}

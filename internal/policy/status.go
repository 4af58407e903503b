package policy

import (
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
)

// Resolve derives the user-visible status for a booking at the given
// instant. Rules are evaluated top to bottom, first match wins:
//
//  1. stored cancelled (either spelling) -> cancelled
//  2. stored refunded -> refunded
//  3. stored checked_in -> completed once departure has passed, else checked_in
//  4. with a usable departure instant: completed after departure, otherwise
//     upcoming/completed by comparing the travel date against today
//  5. unpaid records -> pending_payment
//  6. stored pending -> pending
//  7. stored status passthrough
func Resolve(b domain.Booking, now time.Time) domain.DisplayStatus {
	switch b.Status {
	case domain.StatusCancelled, domain.StatusCanceled:
		return domain.DisplayCancelled
	case domain.StatusRefunded:
		return domain.DisplayRefunded
	case domain.StatusCheckedIn:
		if dep, ok := departureAt(b); ok && now.After(dep) {
			return domain.DisplayCompleted
		}
		return domain.DisplayCheckedIn
	}

	if dep, ok := departureAt(b); ok {
		if now.After(dep) {
			return domain.DisplayCompleted
		}
		today := dateOnly(now)
		travel := dateOnly(b.TravelDate)
		switch {
		case travel.After(today):
			return domain.DisplayUpcoming
		case travel.Equal(today):
			if now.Before(dep) {
				return domain.DisplayUpcoming
			}
			return domain.DisplayCompleted
		default:
			return domain.DisplayCompleted
		}
	}

	switch b.PaymentStatus {
	case domain.PaymentPending, domain.PaymentPendingPayment:
		return domain.DisplayPendingPayment
	}
	if b.Status == domain.StatusPending {
		return domain.DisplayPending
	}
	return domain.DisplayStatus(b.Status)
}

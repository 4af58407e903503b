package policy

import (
	"fmt"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/shopspring/decimal"
)

// RefundTier maps a time range before departure to a refund percentage.
// MinHours is the inclusive lower bound of the range.
type RefundTier struct {
	MinHours float64
	Percent  int
	Label    string
}

// RefundTiers is the authoritative refund table, checked top-down. The
// breakpoints and percentages are a compatibility contract with existing
// consumers and must not change.
var RefundTiers = []RefundTier{
	{MinHours: 48, Percent: 100, Label: "full refund"},
	{MinHours: 24, Percent: 70, Label: "70% refund"},
	{MinHours: 6, Percent: 50, Label: "50% refund"},
	{MinHours: 3, Percent: 30, Label: "30% refund"},
	{MinHours: 0, Percent: 0, Label: "no refund"},
}

// minRefundableHours is the lowest non-zero breakpoint of RefundTiers.
const minRefundableHours = 3

// TierFor returns the refund tier for the given hours until departure.
func TierFor(hoursUntilDeparture float64) RefundTier {
	for _, t := range RefundTiers {
		if hoursUntilDeparture >= t.MinHours {
			return t
		}
	}
	return RefundTiers[len(RefundTiers)-1]
}

// RefundAmount is the refundable part of total at pct, rounded to cents.
func RefundAmount(total decimal.Decimal, pct int) decimal.Decimal {
	return total.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Round(2)
}

// CancellationFee is the part of total retained after the refund.
func CancellationFee(total decimal.Decimal, pct int) decimal.Decimal {
	return total.Sub(RefundAmount(total, pct))
}

// EvaluateCancellation applies the cancellation rules for a booking at the
// given instant. Rules run in order, first applicable wins. The function
// only computes what should be allowed and at what rate; submitting,
// approving and refunding are owned by the booking service.
func EvaluateCancellation(b domain.Booking, status domain.DisplayStatus, cfg CancellationConfig, now time.Time) domain.CancellationInfo {
	if !cfg.Enabled {
		return domain.CancellationInfo{
			RequiresOperatorApproval: true,
			Message:                  "Online cancellation is currently unavailable, contact the operator",
		}
	}
	if b.CheckedIn || b.Status == domain.StatusCheckedIn {
		return domain.CancellationInfo{
			Message: "Cannot cancel after check-in",
		}
	}
	switch status {
	case domain.DisplayPending, domain.DisplayUpcoming, domain.DisplayConfirmed:
	default:
		return domain.CancellationInfo{
			Message: fmt.Sprintf("Cancellation is not available for %s bookings", status),
		}
	}
	dep, ok := departureAt(b)
	if !ok {
		return domain.CancellationInfo{
			RequiresOperatorApproval: true,
			Message:                  "Missing travel information, contact the operator to cancel",
		}
	}

	untilDep := dep.Sub(now)
	hours := untilDep.Hours()
	if hours <= 0 {
		return domain.CancellationInfo{
			Message: "Departure time has passed",
		}
	}

	tier := TierFor(hours)
	if tier.Percent == 0 {
		return domain.CancellationInfo{
			Message:             fmt.Sprintf("Too late to cancel (%s until departure)", formatCountdown(untilDep)),
			HoursUntilDeparture: hours,
		}
	}
	return domain.CancellationInfo{
		Eligible:                 true,
		RequiresOperatorApproval: true,
		RefundPercent:            tier.Percent,
		RefundTierLabel:          tier.Label,
		HoursUntilDeparture:      hours,
		Message: fmt.Sprintf("Cancel now for a %d%% refund (%s until departure)",
			tier.Percent, formatCountdown(untilDep)),
	}
}

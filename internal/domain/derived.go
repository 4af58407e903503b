package domain

import "time"

// DisplayStatus is the status shown to the passenger. It is derived from
// the stored booking state and the current time, never persisted.
type DisplayStatus string

const (
	DisplayCancelled      DisplayStatus = "cancelled"
	DisplayRefunded       DisplayStatus = "refunded"
	DisplayCheckedIn      DisplayStatus = "checked_in"
	DisplayCompleted      DisplayStatus = "completed"
	DisplayUpcoming       DisplayStatus = "upcoming"
	DisplayPendingPayment DisplayStatus = "pending_payment"
	DisplayPending        DisplayStatus = "pending"
	// DisplayConfirmed only appears as a stored-status passthrough for
	// records without usable travel timing.
	DisplayConfirmed DisplayStatus = "confirmed"
)

type CheckInState string

const (
	CheckInOpen                CheckInState = "open"
	CheckInAlreadyDone         CheckInState = "already_checked_in"
	CheckInCancellationPending CheckInState = "cancellation_pending"
	CheckInDisabled            CheckInState = "disabled"
	CheckInNotUpcoming         CheckInState = "not_upcoming"
	CheckInPaymentRequired     CheckInState = "payment_required"
	CheckInMissingInfo         CheckInState = "missing_info"
	CheckInDeparted            CheckInState = "departed"
	CheckInNotOpenYet          CheckInState = "not_open_yet"
	CheckInClosed              CheckInState = "closed"
)

// CheckInInfo reports whether online check-in is currently allowed.
// TimeUntilDeparture and TimeUntilOpen are populated once the departure
// instant could be computed.
type CheckInInfo struct {
	Eligible           bool
	State              CheckInState
	Message            string
	TimeUntilDeparture time.Duration
	TimeUntilOpen      time.Duration
}

// CancellationInfo reports whether cancellation is currently allowed and
// at what refund percentage. Every allowed cancellation still requires
// operator approval before the refund is issued.
type CancellationInfo struct {
	Eligible                 bool
	Message                  string
	RequiresOperatorApproval bool
	RefundPercent            int
	RefundTierLabel          string
	HoursUntilDeparture      float64
}

type JourneyPhase string

const (
	PhaseNotStarted JourneyPhase = "not_started"
	PhaseInProgress JourneyPhase = "in_progress"
	PhaseCompleted  JourneyPhase = "completed"
)

// JourneyProgress is the completion fraction of an in-progress trip.
type JourneyProgress struct {
	Percent          float64
	Phase            JourneyPhase
	RemainingHours   int
	RemainingMinutes int
}

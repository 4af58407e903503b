package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StoredStatus string

const (
	StatusPending   StoredStatus = "pending"
	StatusConfirmed StoredStatus = "confirmed"
	StatusCheckedIn StoredStatus = "checked_in"
	StatusCancelled StoredStatus = "cancelled"
	// StatusCanceled is the US spelling written by older backends; both
	// spellings must be treated as cancelled.
	StatusCanceled  StoredStatus = "canceled"
	StatusRefunded  StoredStatus = "refunded"
	StatusCompleted StoredStatus = "completed"
)

type PaymentStatus string

const (
	PaymentPaid           PaymentStatus = "paid"
	PaymentPending        PaymentStatus = "pending"
	PaymentPendingPayment PaymentStatus = "pending_payment"
)

type CancellationStatus string

const (
	CancellationPending  CancellationStatus = "pending"
	CancellationApproved CancellationStatus = "approved"
	CancellationRejected CancellationStatus = "rejected"
)

// Booking is a read-only snapshot of a ticket booking. TravelDate carries
// only the calendar day; DepartureTime and ArrivalTime are local "HH:MM"
// strings and may be empty when the upstream record lacks them.
type Booking struct {
	ID                    int64
	PNR                   string
	Status                StoredStatus
	PaymentStatus         PaymentStatus
	TravelDate            time.Time
	DepartureTime         string
	ArrivalTime           string
	BusNumber             string
	RouteFrom             string
	RouteTo               string
	PassengerName         string
	Email                 string
	CancellationRequested bool
	CancellationStatus    CancellationStatus
	TotalAmount           decimal.Decimal
	CheckedIn             bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CancellationRequest is a passenger's request to cancel a booking. The
// refund figures are captured from the tier in force at submit time so a
// later operator decision pays out what the passenger was shown.
type CancellationRequest struct {
	ID            string
	BookingID     int64
	PNR           string
	Status        CancellationStatus
	Reason        string
	RefundPercent int
	RefundAmount  decimal.Decimal
	FeeAmount     decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

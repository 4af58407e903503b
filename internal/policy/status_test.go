package policy

import (
	"testing"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolve_StoredTerminalStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status domain.StoredStatus
		want   domain.DisplayStatus
	}{
		{"cancelled", domain.StatusCancelled, domain.DisplayCancelled},
		{"canceled US spelling", domain.StatusCanceled, domain.DisplayCancelled},
		{"refunded", domain.StatusRefunded, domain.DisplayRefunded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := domain.Booking{
				Status:        tt.status,
				TravelDate:    day(2026, 9, 20),
				DepartureTime: "10:00",
			}
			// Terminal stored statuses win for any clock value.
			assert.Equal(t, tt.want, Resolve(b, at(2026, 9, 1, 0, 0)))
			assert.Equal(t, tt.want, Resolve(b, at(2026, 9, 30, 0, 0)))
		})
	}
}

func TestResolve_CheckedIn(t *testing.T) {
	b := domain.Booking{
		Status:        domain.StatusCheckedIn,
		TravelDate:    day(2026, 9, 10),
		DepartureTime: "14:30",
	}

	assert.Equal(t, domain.DisplayCheckedIn, Resolve(b, at(2026, 9, 10, 13, 0)))
	assert.Equal(t, domain.DisplayCompleted, Resolve(b, at(2026, 9, 10, 15, 0)))

	// Without a usable departure instant the booking stays checked_in.
	b.DepartureTime = ""
	assert.Equal(t, domain.DisplayCheckedIn, Resolve(b, at(2026, 9, 30, 0, 0)))
}

func TestResolve_TimedStatuses(t *testing.T) {
	base := domain.Booking{
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPaid,
		TravelDate:    day(2026, 9, 10),
		DepartureTime: "14:30",
	}

	tests := []struct {
		name string
		now  time.Time
		want domain.DisplayStatus
	}{
		{"future travel date", at(2026, 9, 8, 12, 0), domain.DisplayUpcoming},
		{"today before departure", at(2026, 9, 10, 10, 0), domain.DisplayUpcoming},
		{"today after departure", at(2026, 9, 10, 15, 0), domain.DisplayCompleted},
		{"past travel date", at(2026, 9, 12, 9, 0), domain.DisplayCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(base, tt.now))
		})
	}
}

func TestResolve_FallbacksWithoutDeparture(t *testing.T) {
	now := at(2026, 9, 10, 12, 0)

	b := domain.Booking{Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPending}
	assert.Equal(t, domain.DisplayPendingPayment, Resolve(b, now))

	b.PaymentStatus = domain.PaymentPendingPayment
	assert.Equal(t, domain.DisplayPendingPayment, Resolve(b, now))

	b = domain.Booking{Status: domain.StatusPending, PaymentStatus: domain.PaymentPaid}
	assert.Equal(t, domain.DisplayPending, Resolve(b, now))

	// Passthrough for anything else.
	b = domain.Booking{Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPaid}
	assert.Equal(t, domain.DisplayConfirmed, Resolve(b, now))
}

func TestResolve_MalformedDepartureTimeFallsThrough(t *testing.T) {
	b := domain.Booking{
		Status:        domain.StatusConfirmed,
		PaymentStatus: domain.PaymentPending,
		TravelDate:    day(2026, 9, 10),
		DepartureTime: "25:99",
	}
	assert.Equal(t, domain.DisplayPendingPayment, Resolve(b, at(2026, 9, 10, 12, 0)))
}

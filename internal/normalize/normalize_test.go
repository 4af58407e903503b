package normalize

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooking_SnakeCaseRecord(t *testing.T) {
	payload := `{
		"id": 7,
		"pnr": "BUS1234",
		"status": "Confirmed",
		"payment_status": "PAID",
		"travel_date": "2026-09-10",
		"departure_time": "14:30:00",
		"arrival_time": "18:00",
		"bus_number": "KA-01-1234",
		"from": "Bengaluru",
		"to": "Chennai",
		"total_amount": 1250.50
	}`

	var raw RawBooking
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	b := Booking(raw)
	assert.Equal(t, "BUS1234", b.PNR)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	assert.Equal(t, domain.PaymentPaid, b.PaymentStatus)
	assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), b.TravelDate)
	assert.Equal(t, "14:30", b.DepartureTime)
	assert.Equal(t, "18:00", b.ArrivalTime)
	assert.Equal(t, "KA-01-1234", b.BusNumber)
	assert.Equal(t, "Bengaluru", b.RouteFrom)
	assert.True(t, decimal.RequireFromString("1250.50").Equal(b.TotalAmount))
}

func TestBooking_CamelCaseAliases(t *testing.T) {
	payload := `{
		"booking_reference": "BUS9999",
		"booking_status": "canceled",
		"paymentStatus": "pending",
		"date": "2026-09-10T00:00:00Z",
		"departureTime": "09:15",
		"plate_number": "MH-12-7777",
		"origin": "Pune",
		"destination": "Mumbai",
		"price": "450"
	}`

	var raw RawBooking
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&raw))

	b := Booking(raw)
	assert.Equal(t, "BUS9999", b.PNR)
	assert.Equal(t, domain.StatusCanceled, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, "09:15", b.DepartureTime)
	assert.Equal(t, "MH-12-7777", b.BusNumber)
	assert.Equal(t, "Pune", b.RouteFrom)
	assert.Equal(t, "Mumbai", b.RouteTo)
	assert.True(t, decimal.NewFromInt(450).Equal(b.TotalAmount))
}

func TestBooking_MissingAndMalformedFields(t *testing.T) {
	b := Booking(RawBooking{
		PNR:           "BUS0001",
		Status:        "pending",
		TravelDate:    "not-a-date",
		DepartureTime: "soonish",
	})

	assert.True(t, b.TravelDate.IsZero())
	// Unparsable clock values pass through; the engine degrades on them.
	assert.Equal(t, "soonish", b.DepartureTime)
	assert.True(t, b.TotalAmount.IsZero())
}


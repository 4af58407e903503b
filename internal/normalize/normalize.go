package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
	"github.com/shopspring/decimal"
)

// RawBooking mirrors the loosely-typed record returned by the upstream
// booking API. The same field can appear under several names depending on
// which backend wrote the record; the adapter coalesces them so aliasing
// never reaches the policy rules.
type RawBooking struct {
	ID                    int64       `json:"id"`
	PNR                   string      `json:"pnr"`
	BookingReference      string      `json:"booking_reference"`
	Status                string      `json:"status"`
	BookingStatus         string      `json:"booking_status"`
	PaymentStatus         string      `json:"payment_status"`
	PaymentStatusCamel    string      `json:"paymentStatus"`
	TravelDate            string      `json:"travel_date"`
	Date                  string      `json:"date"`
	DepartureTime         string      `json:"departure_time"`
	DepartureTimeCamel    string      `json:"departureTime"`
	ArrivalTime           string      `json:"arrival_time"`
	ArrivalTimeCamel      string      `json:"arrivalTime"`
	BusNumber             string      `json:"bus_number"`
	BusNumberCamel        string      `json:"busNumber"`
	PlateNumber           string      `json:"plate_number"`
	From                  string      `json:"from"`
	Origin                string      `json:"origin"`
	To                    string      `json:"to"`
	Destination           string      `json:"destination"`
	PassengerName         string      `json:"passenger_name"`
	Email                 string      `json:"email"`
	CheckedIn             bool        `json:"checked_in"`
	CancellationRequested bool        `json:"cancellation_requested"`
	CancellationStatus    string      `json:"cancellation_status"`
	TotalAmount           LooseAmount `json:"total_amount"`
	Amount                LooseAmount `json:"amount"`
	Price                 LooseAmount `json:"price"`
}

// LooseAmount accepts a JSON number or a quoted numeric string; backends
// disagree on which they send.
type LooseAmount string

func (a *LooseAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = LooseAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = LooseAmount(n.String())
	return nil
}

// Booking converts a raw upstream record into the canonical shape the
// policy engine consumes.
func Booking(raw RawBooking) domain.Booking {
	return domain.Booking{
		ID:                    raw.ID,
		PNR:                   first(raw.PNR, raw.BookingReference),
		Status:                domain.StoredStatus(strings.ToLower(first(raw.Status, raw.BookingStatus))),
		PaymentStatus:         domain.PaymentStatus(strings.ToLower(first(raw.PaymentStatus, raw.PaymentStatusCamel))),
		TravelDate:            parseDate(first(raw.TravelDate, raw.Date)),
		DepartureTime:         clockOfDay(first(raw.DepartureTime, raw.DepartureTimeCamel)),
		ArrivalTime:           clockOfDay(first(raw.ArrivalTime, raw.ArrivalTimeCamel)),
		BusNumber:             first(raw.BusNumber, raw.BusNumberCamel, raw.PlateNumber),
		RouteFrom:             first(raw.From, raw.Origin),
		RouteTo:               first(raw.To, raw.Destination),
		PassengerName:         raw.PassengerName,
		Email:                 raw.Email,
		CheckedIn:             raw.CheckedIn,
		CancellationRequested: raw.CancellationRequested,
		CancellationStatus:    domain.CancellationStatus(strings.ToLower(raw.CancellationStatus)),
		TotalAmount:           parseAmount(raw.TotalAmount, raw.Amount, raw.Price),
	}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

// clockOfDay trims "HH:MM:SS" to "HH:MM". Anything else passes through
// unchanged; the policy engine degrades on unparsable values.
func clockOfDay(s string) string {
	if _, err := time.Parse("15:04:05", s); err == nil {
		return s[:5]
	}
	return s
}

func parseAmount(values ...LooseAmount) decimal.Decimal {
	for _, v := range values {
		if v == "" {
			continue
		}
		if d, err := decimal.NewFromString(string(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

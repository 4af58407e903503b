package policy

import (
	"fmt"
	"time"

	"github.com/dkuznetsov91/busbooking/internal/domain"
)

const clockLayout = "15:04"

// combineDateTime builds a wall-clock instant from a date-only value and a
// local "HH:MM" time of day. ok is false when either part is missing or the
// time does not parse; callers degrade to the conservative result instead
// of surfacing an error.
func combineDateTime(date time.Time, hhmm string) (time.Time, bool) {
	if date.IsZero() || hhmm == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(clockLayout, hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), true
}

func departureAt(b domain.Booking) (time.Time, bool) {
	return combineDateTime(b.TravelDate, b.DepartureTime)
}

// arrivalAfter builds the arrival instant for a trip departing at dep. An
// arrival that does not fall after the departure on the same calendar day
// is an overnight trip and rolls to the next day.
func arrivalAfter(dep time.Time, date time.Time, hhmm string) (time.Time, bool) {
	arr, ok := combineDateTime(date, hhmm)
	if !ok {
		return time.Time{}, false
	}
	if !arr.After(dep) {
		arr = arr.AddDate(0, 0, 1)
	}
	return arr, true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// formatCountdown renders a duration as "2h 30m" or "45m" for user-facing
// messages. Negative durations render as "0m".
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

package policy

import "fmt"

// CheckInConfig controls the online check-in window relative to departure.
type CheckInConfig struct {
	Enabled          bool
	StartHoursBefore int
	EndHoursBefore   int
}

// CancellationConfig controls online cancellation. MinHoursBefore is the
// floor below which cancellation is refused; the refund tier table is the
// authority and Validate flags any divergence.
type CancellationConfig struct {
	Enabled        bool
	MinHoursBefore float64
}

// Config is the single shared policy configuration. Both windows live here
// so the check-in and cancellation cutoffs cannot drift apart across files.
type Config struct {
	CheckIn      CheckInConfig
	Cancellation CancellationConfig
}

func DefaultConfig() Config {
	return Config{
		CheckIn: CheckInConfig{
			Enabled:          true,
			StartHoursBefore: 24,
			EndHoursBefore:   1,
		},
		Cancellation: CancellationConfig{
			Enabled:        true,
			MinHoursBefore: minRefundableHours,
		},
	}
}

// Validate reports misconfigured windows. A cancellation floor that
// disagrees with the refund table's lowest non-zero tier is reported
// rather than silently resolved; the table stays authoritative either way.
func (c Config) Validate() error {
	if c.CheckIn.StartHoursBefore <= c.CheckIn.EndHoursBefore {
		return fmt.Errorf("check-in window opens %dh before departure but closes %dh before",
			c.CheckIn.StartHoursBefore, c.CheckIn.EndHoursBefore)
	}
	if c.Cancellation.MinHoursBefore != minRefundableHours {
		return fmt.Errorf("cancellation floor %.1fh diverges from refund table cutoff %.1fh; the table is authoritative",
			c.Cancellation.MinHoursBefore, float64(minRefundableHours))
	}
	return nil
}

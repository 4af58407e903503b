package policy

import "time"

// Clock supplies the current time to callers of the policy functions.
// The functions themselves take now as a parameter; services hold a Clock
// so tests can pin the wall clock.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func RealClock() Clock { return realClock{} }

package clock

import "time"

// Clock supplies the current instant used for membership expiry comparisons.
// The engine never reads time.Now directly so tests can pin the clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock { return systemClock{} }

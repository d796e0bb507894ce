package domain

import "time"

// Clock supplies the current instant to the progress logic. Injecting it
// keeps every transition deterministic and testable; the progress aggregate
// never calls time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock frozen at a specific instant, for tests and replays.
type FixedClock struct {
	Instant time.Time
}

// Now returns the frozen instant.
func (c FixedClock) Now() time.Time {
	return c.Instant
}

package port

import "time"

// Clock supplies the current time so handlers that depend on the hour of day
// or today's date stay testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

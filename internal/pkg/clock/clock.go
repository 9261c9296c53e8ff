package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
}

// TimeClocker is the production clock implementation backed by time.Now.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// Fixed is a Clocker pinned to a single instant, for deterministic tests of
// code expiry and retry throttling.
type Fixed struct {
	at time.Time
}

// NewFixed returns a Fixed clock pinned to at.
func NewFixed(at time.Time) *Fixed {
	return &Fixed{at: at}
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.at
}

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.at = f.at.Add(d)
}

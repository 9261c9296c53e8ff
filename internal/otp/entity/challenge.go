package entity

import "time"

// RequiredActionEnrollMobile asks the identity host to collect a mobile
// number from the user on next login.
const RequiredActionEnrollMobile = "mobile-number-enroll"

// Challenge is the passcode state attached to one authentication flow.
// Once issued it is immutable except for RetryNotBefore; a new challenge
// replaces the old one wholesale.
type Challenge struct {
	// Code is the plain passcode as sent to the user.
	Code string
	// IssuedAt is when the code was generated.
	IssuedAt time.Time
	// ExpiresAt is the instant the code stops being accepted. The boundary
	// is exclusive: a submission at exactly ExpiresAt is already expired.
	ExpiresAt time.Time
	// RetryNotBefore throttles resubmission after a failed attempt on a
	// mandatory step. Zero means no throttle is active.
	RetryNotBefore time.Time
}

// Expired reports whether the challenge is expired at the given instant.
func (c Challenge) Expired(at time.Time) bool {
	return !at.Before(c.ExpiresAt)
}

// Throttled reports whether submissions are still blocked at the given
// instant, and if so for how much longer.
func (c Challenge) Throttled(at time.Time) (time.Duration, bool) {
	if c.RetryNotBefore.IsZero() || !at.Before(c.RetryNotBefore) {
		return 0, false
	}
	return c.RetryNotBefore.Sub(at), true
}

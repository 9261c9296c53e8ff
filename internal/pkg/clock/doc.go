// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly. Challenge expiry and retry throttling are pure
// functions of the current time, so tests swap in the Fixed clock to pin or
// advance it deterministically.
package clock

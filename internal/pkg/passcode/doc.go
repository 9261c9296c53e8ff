// Package passcode generates short one-time passcodes for SMS delivery.
//
// Passcodes are authentication secrets, so every generator draws from
// crypto/rand. The default Dictation generator trades raw entropy for a
// shape that is easy to read out loud over a bad phone line; the Numeric
// generator produces plain digit codes of configurable length.
package passcode

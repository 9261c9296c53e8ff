package smsgw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyRecipient is returned when a message has no usable phone number.
var ErrEmptyRecipient = errors.New("smsgw: recipient phone number is empty")

// Message represents an outbound SMS payload.
type Message struct {
	// To is the recipient phone number as stored, e.g. "+45 10 10 10 10".
	// It is sanitized to wire format by the transport.
	To string
	// Body is the rendered message text.
	Body string
}

// Gateway abstracts an SMS provider.
type Gateway interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	// Exactly one attempt is made; failures are reported as *DeliveryError.
	Send(ctx context.Context, msg Message) error
}

// DeliveryError reports a failed delivery attempt. It carries the provider's
// diagnostic for logs; user-facing surfaces must not expose it.
type DeliveryError struct {
	// Provider names the transport that failed.
	Provider string
	// StatusCode is the provider's HTTP status, when applicable.
	StatusCode int
	// Diagnostic is the provider's error detail.
	Diagnostic string
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("smsgw: %s delivery failed (status %d): %s", e.Provider, e.StatusCode, e.Diagnostic)
	}
	return fmt.Sprintf("smsgw: %s delivery failed: %s", e.Provider, e.Diagnostic)
}

// Sanitize converts a phone number to wire format: all whitespace removed
// and one optional leading "+" stripped, so "+45 10 10 10 10" becomes
// "4510101010".
func Sanitize(msisdn string) (string, error) {
	sanitized := strings.Join(strings.Fields(msisdn), "")
	sanitized = strings.TrimPrefix(sanitized, "+")

	if sanitized == "" {
		return "", ErrEmptyRecipient
	}

	return sanitized, nil
}

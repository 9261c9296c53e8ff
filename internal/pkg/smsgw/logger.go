package smsgw

import (
	"context"
	"log/slog"
)

// LogGateway writes messages to the process log instead of sending them.
// It is meant for local development and automated tests where a real
// provider account is unavailable. Sends always succeed.
type LogGateway struct{}

// NewLogGateway returns a log-only Gateway.
func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

// Send logs the message instead of delivering it.
func (g *LogGateway) Send(ctx context.Context, msg Message) error {
	recipient, err := Sanitize(msg.To)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "simulated sms delivery", "to", recipient, "body", msg.Body)

	return nil
}

// Close implements io.Closer.
func (g *LogGateway) Close() error {
	return nil
}

package smsgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

const (
	defaultGatewayAPIEndpoint = "https://gatewayapi.com/rest/mtsms"
	defaultGatewayAPITimeout  = 10 * time.Second

	// maxDiagnosticBytes caps how much of a provider error body is kept.
	maxDiagnosticBytes = 2048
)

// ErrGatewayAPIKeyRequired is returned when the API token is missing.
var ErrGatewayAPIKeyRequired = errors.New("smsgw: gatewayapi token is required")

// GatewayAPI is a Gateway implementation backed by the GatewayAPI REST
// endpoint using token authentication.
type GatewayAPI struct {
	endpoint string
	apiKey   string
	sender   string
	client   *http.Client
}

// GatewayAPIConfig configures the GatewayAPI transport.
type GatewayAPIConfig struct {
	// APIKey is the provider-issued token. Required.
	APIKey string
	// Sender is the sender ID shown on the recipient's phone.
	Sender string
	// Endpoint overrides the REST endpoint; used in tests.
	Endpoint string
	// Timeout bounds one send call end to end. Defaults to 10s; the calling
	// flow blocks until the send returns, so it must never be unbounded.
	Timeout time.Duration
}

type gatewayAPIRecipient struct {
	MSISDN string `json:"msisdn"`
}

type gatewayAPIPayload struct {
	Recipients []gatewayAPIRecipient `json:"recipients"`
	Message    string                `json:"message"`
	Sender     string                `json:"sender,omitempty"`
}

// NewGatewayAPI constructs a GatewayAPI sender.
func NewGatewayAPI(cfg GatewayAPIConfig) (*GatewayAPI, error) {
	if cfg.APIKey == "" {
		return nil, ErrGatewayAPIKeyRequired
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGatewayAPIEndpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayAPITimeout
	}

	return &GatewayAPI{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		sender:   cfg.Sender,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Send delivers one message. Any non-2xx status or transport fault is
// reported as *DeliveryError with the provider's diagnostic.
func (g *GatewayAPI) Send(ctx context.Context, msg Message) error {
	recipient, err := Sanitize(msg.To)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(gatewayAPIPayload{
		Recipients: []gatewayAPIRecipient{{MSISDN: recipient}},
		Message:    msg.Body,
		Sender:     g.sender,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return &DeliveryError{Provider: DriverGatewayAPI, Diagnostic: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBytes))
		return &DeliveryError{
			Provider:   DriverGatewayAPI,
			StatusCode: resp.StatusCode,
			Diagnostic: string(body),
		}
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (g *GatewayAPI) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

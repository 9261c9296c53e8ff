package smsgw

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverGatewayAPI selects the GatewayAPI HTTP transport.
	DriverGatewayAPI = "gatewayapi"
	// DriverLog selects the log-only simulation transport.
	DriverLog = "log"
)

// ErrUnknownDriver indicates an unsupported SMS driver.
var ErrUnknownDriver = errors.New("smsgw: unknown driver")

// FactoryOptions groups config for supported SMS transports.
type FactoryOptions struct {
	// GatewayAPI provides configuration for the GatewayAPI driver.
	GatewayAPI GatewayAPIConfig
}

// NewFromDriver constructs a Gateway implementation by driver name.
//
// Credential problems surface here, before any challenge is issued, so a
// misconfigured deployment fails at startup rather than mid-login.
func NewFromDriver(driver string, opts FactoryOptions) (Gateway, error) {
	switch strings.TrimSpace(driver) {
	case DriverGatewayAPI:
		return NewGatewayAPI(opts.GatewayAPI)
	case DriverLog:
		return NewLogGateway(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// Package smsgw defines the contracts for sending SMS text messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific SMS provider. Use cases work with the Gateway interface and
// Message payload; concrete transports (GatewayAPI, log-only simulation) are
// implemented elsewhere in this package and selected by the driver factory.
//
// Delivery is attempted exactly once per call. The gateway never retries: a
// failed send surfaces as *DeliveryError and the decision to reissue the
// challenge belongs to the caller.
package smsgw

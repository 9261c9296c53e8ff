package inbound

import "time"

type ChallengeRequest struct {
	FlowID     string `json:"flow_id"`
	IdentityID string `json:"identity_id"`
	Locale     string `json:"locale"`
}

type ChallengeResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyRequest struct {
	FlowID      string `json:"flow_id"`
	Code        string `json:"code"`
	Requirement string `json:"requirement"`
}

type VerifyResponse struct {
	Outcome           string `json:"outcome"`
	RetryAfterSeconds int64  `json:"retry_after_seconds,omitempty"`
}

type ApplicableResponse struct {
	Applicable bool `json:"applicable"`
}

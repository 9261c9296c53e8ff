package inbound

import (
	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/otp/usecase"
	"github.com/shandysiswandi/smsfactor/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passcode step.
type HTTPEndpoint struct {
	uc uc
}

// Challenge issues a fresh passcode for a flow and sends it by SMS.
func (h *HTTPEndpoint) Challenge(r *router.Request) (any, error) {
	var req ChallengeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Challenge(r.Context(), usecase.ChallengeInput{
		FlowID:     req.FlowID,
		IdentityID: req.IdentityID,
		Locale:     req.Locale,
	})
	if err != nil {
		return nil, err
	}

	return ChallengeResponse{ExpiresAt: resp.ExpiresAt}, nil
}

// Verify evaluates a submitted passcode for a flow.
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		FlowID:      req.FlowID,
		Code:        req.Code,
		Requirement: entity.RequirementFromString(req.Requirement),
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{
		Outcome:           resp.Outcome.String(),
		RetryAfterSeconds: int64(resp.RetryAfter.Seconds()),
	}, nil
}

// Applicable reports whether the SMS step can run for an identity.
func (h *HTTPEndpoint) Applicable(r *router.Request) (any, error) {
	resp, err := h.uc.Applicable(r.Context(), usecase.ApplicableInput{
		IdentityID: r.GetParam("identity_id"),
	})
	if err != nil {
		return nil, err
	}

	return ApplicableResponse{Applicable: resp.Applicable}, nil
}

package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
)

type VerifyInput struct {
	FlowID      string `validate:"required"`
	Code        string `validate:"required"`
	Requirement entity.Requirement
}

type VerifyOutput struct {
	Outcome entity.Outcome
	// RetryAfter is how long resubmission is blocked after an invalid code
	// on a mandatory step. Zero otherwise.
	RetryAfter time.Duration
}

// Verify evaluates a submitted passcode against the flow's stored challenge.
//
// A matching code is consumed exactly once: accepted and expired outcomes
// both clear the challenge. A wrong code never mutates the code or its
// expiry; on a mandatory step it arms a short resubmission throttle instead
// of blocking the request.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	// the submitted code is compared exactly as received, no trimming or
	// case folding
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Requirement == entity.RequirementUnknown {
		return nil, goerror.NewInvalidInput(nil, "requirement", "must be required, alternative or conditional")
	}

	ch, err := s.store.GetChallenge(ctx, in.FlowID)
	if errors.Is(err, goerror.ErrNotFound) {
		// A verify without a prior challenge means the flow state is broken,
		// not that the user typed a wrong code.
		slog.ErrorContext(ctx, "no challenge found for flow", "flow_id", in.FlowID)
		return nil, goerror.NewServer(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load challenge", "flow_id", in.FlowID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	if remaining, ok := ch.Throttled(now); ok {
		slog.WarnContext(ctx, "verification throttled", "flow_id", in.FlowID, "retry_in", remaining)
		return nil, goerror.NewBusiness("please wait before retrying", goerror.CodeTooManyRequest)
	}

	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(in.Code)) == 1 {
		if err := s.store.ClearChallenge(ctx, in.FlowID); err != nil {
			slog.ErrorContext(ctx, "failed to clear challenge", "flow_id", in.FlowID, "error", err)
			return nil, goerror.NewServer(err)
		}

		if ch.Expired(now) {
			slog.WarnContext(ctx, "passcode expired", "flow_id", in.FlowID, "expired_at", ch.ExpiresAt)
			return &VerifyOutput{Outcome: entity.OutcomeExpired}, nil
		}

		return &VerifyOutput{Outcome: entity.OutcomeAccepted}, nil
	}

	if in.Requirement != entity.RequirementRequired {
		slog.WarnContext(ctx, "passcode mismatch on optional step", "flow_id", in.FlowID, "requirement", in.Requirement.String())
		return &VerifyOutput{Outcome: entity.OutcomeAttempted}, nil
	}

	delay := s.retryDelay()
	if err := s.store.SetRetryNotBefore(ctx, in.FlowID, now.Add(delay)); err != nil {
		slog.ErrorContext(ctx, "failed to arm retry throttle", "flow_id", in.FlowID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.WarnContext(ctx, "passcode mismatch on mandatory step", "flow_id", in.FlowID, "retry_after", delay)

	return &VerifyOutput{Outcome: entity.OutcomeInvalid, RetryAfter: delay}, nil
}

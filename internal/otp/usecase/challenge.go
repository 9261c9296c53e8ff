package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
	"github.com/shandysiswandi/smsfactor/internal/pkg/i18n"
	"github.com/shandysiswandi/smsfactor/internal/pkg/smsgw"
)

type ChallengeInput struct {
	FlowID     string `validate:"required"`
	IdentityID string `validate:"required"`
	Locale     string
}

type ChallengeOutput struct {
	ExpiresAt time.Time
}

type enrolledMobile struct {
	Mobile string `validate:"required,msisdn"`
}

// Challenge issues a fresh passcode for the flow and delivers it by SMS.
//
// The challenge is stored before the send so a delivery report failure
// cannot orphan a code the user may still receive. Reissuing replaces the
// prior challenge wholesale; the old code stops being accepted immediately.
func (s *Usecase) Challenge(ctx context.Context, in ChallengeInput) (*ChallengeOutput, error) {
	ctx, span := s.startSpan(ctx, "Challenge")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	mobile, err := s.directory.MobileNumber(ctx, in.IdentityID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "identity has no mobile number enrolled", "identity_id", in.IdentityID)
		return nil, goerror.NewBusiness("mobile number not enrolled", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve mobile number", "identity_id", in.IdentityID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.validator.Validate(enrolledMobile{Mobile: mobile}); err != nil {
		slog.WarnContext(ctx, "enrolled mobile number is malformed", "identity_id", in.IdentityID)
		return nil, goerror.NewBusiness("mobile number is not valid", goerror.CodeInvalidInput)
	}

	code, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate passcode", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.codeTTL()
	now := s.clock.Now()

	ch := entity.Challenge{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.store.PutChallenge(ctx, in.FlowID, ch); err != nil {
		slog.ErrorContext(ctx, "failed to store challenge", "flow_id", in.FlowID, "error", err)
		return nil, goerror.NewServer(err)
	}

	body := s.bundle.Render(in.Locale, i18n.KeySMSText, code, int64(ttl/time.Minute))

	if err := s.gateway.Send(ctx, smsgw.Message{To: mobile, Body: body}); err != nil {
		var derr *smsgw.DeliveryError
		if errors.As(err, &derr) {
			slog.ErrorContext(ctx, "sms delivery failed",
				"flow_id", in.FlowID,
				"provider", derr.Provider,
				"status", derr.StatusCode,
				"diagnostic", derr.Diagnostic,
			)
		} else {
			slog.ErrorContext(ctx, "sms delivery failed", "flow_id", in.FlowID, "error", err)
		}

		// The stored challenge is left in place. The provider may have
		// delivered the message despite the error report, and the code the
		// user holds must still verify.
		return nil, goerror.NewServer(err)
	}

	return &ChallengeOutput{ExpiresAt: ch.ExpiresAt}, nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
)

type ApplicableInput struct {
	IdentityID string `validate:"required"`
}

type ApplicableOutput struct {
	Applicable bool
}

// Applicable reports whether the SMS step can run for the identity, which
// requires an enrolled mobile number. When none is set, the enrollment
// required action is scheduled so the host collects a number on next login.
func (s *Usecase) Applicable(ctx context.Context, in ApplicableInput) (*ApplicableOutput, error) {
	ctx, span := s.startSpan(ctx, "Applicable")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	_, err := s.directory.MobileNumber(ctx, in.IdentityID)
	if errors.Is(err, goerror.ErrNotFound) {
		if err := s.directory.AddRequiredAction(ctx, in.IdentityID, entity.RequiredActionEnrollMobile); err != nil {
			slog.ErrorContext(ctx, "failed to add required action", "identity_id", in.IdentityID, "error", err)
			return nil, goerror.NewServer(err)
		}

		slog.InfoContext(ctx, "mobile enrollment scheduled", "identity_id", in.IdentityID)

		return &ApplicableOutput{Applicable: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve mobile number", "identity_id", in.IdentityID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ApplicableOutput{Applicable: true}, nil
}

package inbound

import (
	"context"

	"github.com/shandysiswandi/smsfactor/internal/otp/usecase"
	"github.com/shandysiswandi/smsfactor/internal/pkg/router"
)

type uc interface {
	Challenge(ctx context.Context, in usecase.ChallengeInput) (*usecase.ChallengeOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Applicable(ctx context.Context, in usecase.ApplicableInput) (*usecase.ApplicableOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/otp/challenge", end.Challenge)
	r.POST("/api/v1/otp/verify", end.Verify)
	r.GET("/api/v1/otp/applicable/:identity_id", end.Applicable)
}

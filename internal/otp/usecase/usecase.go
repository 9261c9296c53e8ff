package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/clock"
	"github.com/shandysiswandi/smsfactor/internal/pkg/config"
	"github.com/shandysiswandi/smsfactor/internal/pkg/i18n"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"github.com/shandysiswandi/smsfactor/internal/pkg/passcode"
	"github.com/shandysiswandi/smsfactor/internal/pkg/smsgw"
	"github.com/shandysiswandi/smsfactor/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// sessionStore keeps per-flow challenge state. Implementations must treat
// the flow ID as the unit of isolation: concurrent flows never share codes.
type sessionStore interface {
	// PutChallenge stores the challenge for a flow, replacing any prior one.
	PutChallenge(ctx context.Context, flowID string, ch entity.Challenge) error
	// GetChallenge loads the challenge for a flow. A flow with no challenge
	// returns goerror.ErrNotFound.
	GetChallenge(ctx context.Context, flowID string) (*entity.Challenge, error)
	// SetRetryNotBefore arms the resubmission throttle without touching the
	// code or its expiry.
	SetRetryNotBefore(ctx context.Context, flowID string, at time.Time) error
	// ClearChallenge removes the challenge once it is consumed.
	ClearChallenge(ctx context.Context, flowID string) error
}

// identityDirectory resolves user attributes owned by the identity host.
type identityDirectory interface {
	// MobileNumber returns the user's enrolled phone number, or
	// goerror.ErrNotFound when none is set.
	MobileNumber(ctx context.Context, identityID string) (string, error)
	// AddRequiredAction schedules an enrollment action on the user.
	AddRequiredAction(ctx context.Context, identityID, action string) error
}

// Usecase implements the passcode challenge and verification operations.
type Usecase struct {
	store     sessionStore
	directory identityDirectory
	gateway   smsgw.Gateway
	generator passcode.Generator
	bundle    *i18n.Bundle
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	Store      sessionStore
	Directory  identityDirectory
	Gateway    smsgw.Gateway
	Generator  passcode.Generator
	Bundle     *i18n.Bundle
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		directory: dep.Directory,
		gateway:   dep.Gateway,
		generator: dep.Generator,
		bundle:    dep.Bundle,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

const (
	defaultCodeTTL    = 5 * time.Minute
	defaultRetryDelay = 2 * time.Second
)

func (s *Usecase) codeTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.otp.code_ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultCodeTTL
}

func (s *Usecase) retryDelay() time.Duration {
	if d := s.cfg.GetSecond("modules.otp.retry_delay_seconds"); d > 0 {
		return d
	}
	return defaultRetryDelay
}

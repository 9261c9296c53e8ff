package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/clock"
	"github.com/shandysiswandi/smsfactor/internal/pkg/config"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
	"github.com/shandysiswandi/smsfactor/internal/pkg/i18n"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"github.com/shandysiswandi/smsfactor/internal/pkg/smsgw"
	"github.com/shandysiswandi/smsfactor/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	challenges map[string]entity.Challenge
	putErr     error
	getErr     error
	clearErr   error
	retryErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{challenges: make(map[string]entity.Challenge)}
}

func (f *fakeStore) PutChallenge(_ context.Context, flowID string, ch entity.Challenge) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.challenges[flowID] = ch
	return nil
}

func (f *fakeStore) GetChallenge(_ context.Context, flowID string) (*entity.Challenge, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	ch, ok := f.challenges[flowID]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (f *fakeStore) SetRetryNotBefore(_ context.Context, flowID string, at time.Time) error {
	if f.retryErr != nil {
		return f.retryErr
	}
	ch, ok := f.challenges[flowID]
	if !ok {
		return goerror.ErrNotFound
	}
	ch.RetryNotBefore = at
	f.challenges[flowID] = ch
	return nil
}

func (f *fakeStore) ClearChallenge(_ context.Context, flowID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	delete(f.challenges, flowID)
	return nil
}

type fakeDirectory struct {
	mobiles map[string]string
	actions map[string][]string
	err     error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		mobiles: make(map[string]string),
		actions: make(map[string][]string),
	}
}

func (f *fakeDirectory) MobileNumber(_ context.Context, identityID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	mobile, ok := f.mobiles[identityID]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return mobile, nil
}

func (f *fakeDirectory) AddRequiredAction(_ context.Context, identityID, action string) error {
	if f.err != nil {
		return f.err
	}
	f.actions[identityID] = append(f.actions[identityID], action)
	return nil
}

type fakeGateway struct {
	sent []smsgw.Message
	err  error
}

func (f *fakeGateway) Send(_ context.Context, msg smsgw.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeGateway) Close() error { return nil }

type fixedGenerator struct {
	code string
	err  error
}

func (f fixedGenerator) Generate() (string, error) {
	return f.code, f.err
}

type fixture struct {
	uc        *Usecase
	store     *fakeStore
	directory *fakeDirectory
	gateway   *fakeGateway
	clock     *clock.Fixed
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  otp:
    code_ttl_seconds: 300
    retry_delay_seconds: 2
`))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	store := newFakeStore()
	directory := newFakeDirectory()
	gateway := &fakeGateway{}
	fixedClock := clock.NewFixed(time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC))

	uc := New(Dependency{
		Store:      store,
		Directory:  directory,
		Gateway:    gateway,
		Generator:  fixedGenerator{code: "bab77"},
		Bundle:     i18n.NewBundle(),
		Validator:  v10,
		Config:     cfg,
		Clock:      fixedClock,
		Instrument: instrument.NewNoop(),
	})

	return &fixture{
		uc:        uc,
		store:     store,
		directory: directory,
		gateway:   gateway,
		clock:     fixedClock,
	}
}

func TestChallengeIssuesAndSends(t *testing.T) {
	fx := newFixture(t)
	fx.directory.mobiles["user-1"] = "+45 10 10 10 10"

	out, err := fx.uc.Challenge(context.Background(), ChallengeInput{
		FlowID:     "flow-1",
		IdentityID: "user-1",
		Locale:     "en",
	})
	require.NoError(t, err)

	assert.Equal(t, fx.clock.Now().Add(5*time.Minute), out.ExpiresAt)

	stored, ok := fx.store.challenges["flow-1"]
	require.True(t, ok)
	assert.Equal(t, "bab77", stored.Code)
	assert.Equal(t, fx.clock.Now(), stored.IssuedAt)
	assert.Equal(t, out.ExpiresAt, stored.ExpiresAt)

	require.Len(t, fx.gateway.sent, 1)
	assert.Equal(t, "+45 10 10 10 10", fx.gateway.sent[0].To)
	assert.Equal(t, "bab77 is your verification code. It is valid for 5 minutes.", fx.gateway.sent[0].Body)
}

func TestChallengeReplacesPriorCode(t *testing.T) {
	fx := newFixture(t)
	fx.directory.mobiles["user-1"] = "4510101010"
	fx.store.challenges["flow-1"] = entity.Challenge{
		Code:      "old99",
		IssuedAt:  fx.clock.Now().Add(-time.Minute),
		ExpiresAt: fx.clock.Now().Add(4 * time.Minute),
	}

	_, err := fx.uc.Challenge(context.Background(), ChallengeInput{
		FlowID:     "flow-1",
		IdentityID: "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "bab77", fx.store.challenges["flow-1"].Code)
}

func TestChallengeWithoutMobileNumber(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Challenge(context.Background(), ChallengeInput{
		FlowID:     "flow-1",
		IdentityID: "user-1",
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeBusiness, gerr.Type())
	assert.Equal(t, goerror.CodeNotFound, gerr.Code())
	assert.Empty(t, fx.gateway.sent)
	assert.Empty(t, fx.store.challenges)
}

func TestChallengeMalformedMobileNumber(t *testing.T) {
	fx := newFixture(t)
	fx.directory.mobiles["user-1"] = "not-a-number"

	_, err := fx.uc.Challenge(context.Background(), ChallengeInput{
		FlowID:     "flow-1",
		IdentityID: "user-1",
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeBusiness, gerr.Type())
	assert.Empty(t, fx.gateway.sent)
}

func TestChallengeDeliveryFailureKeepsChallenge(t *testing.T) {
	fx := newFixture(t)
	fx.directory.mobiles["user-1"] = "4510101010"
	fx.gateway.err = &smsgw.DeliveryError{Provider: "gatewayapi", StatusCode: 500, Diagnostic: "boom"}

	_, err := fx.uc.Challenge(context.Background(), ChallengeInput{
		FlowID:     "flow-1",
		IdentityID: "user-1",
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeServer, gerr.Type())

	// the code may have reached the phone despite the error report
	stored, ok := fx.store.challenges["flow-1"]
	require.True(t, ok)
	assert.Equal(t, "bab77", stored.Code)
}

func TestChallengeValidatesInput(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Challenge(context.Background(), ChallengeInput{})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeValidation, gerr.Type())
}

func TestVerifyAccepted(t *testing.T) {
	fx := newFixture(t)
	fx.store.challenges["flow-1"] = entity.Challenge{
		Code:      "bab77",
		IssuedAt:  fx.clock.Now(),
		ExpiresAt: fx.clock.Now().Add(5 * time.Minute),
	}

	out, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeAccepted, out.Outcome)
	assert.Zero(t, out.RetryAfter)
	assert.Empty(t, fx.store.challenges)
}

func TestVerifyComparesExactly(t *testing.T) {
	fx := newFixture(t)
	fx.store.challenges["flow-1"] = entity.Challenge{
		Code:      "bab77",
		IssuedAt:  fx.clock.Now(),
		ExpiresAt: fx.clock.Now().Add(5 * time.Minute),
	}

	// surrounding whitespace is not stripped from the submission
	out, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        " bab77 ",
		Requirement: entity.RequirementAlternative,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAttempted, out.Outcome)

	out, err = fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "BAB77",
		Requirement: entity.RequirementAlternative,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAttempted, out.Outcome)
}

func TestVerifyExpired(t *testing.T) {
	fx := newFixture(t)
	fx.store.challenges["flow-1"] = entity.Challenge{
		Code:      "bab77",
		IssuedAt:  fx.clock.Now(),
		ExpiresAt: fx.clock.Now().Add(5 * time.Minute),
	}

	fx.clock.Advance(5 * time.Minute)

	out, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeExpired, out.Outcome)
	assert.Empty(t, fx.store.challenges)
}

func TestVerifyInvalidArmsThrottle(t *testing.T) {
	fx := newFixture(t)
	fx.store.challenges["flow-1"] = entity.Challenge{
		Code:      "bab77",
		IssuedAt:  fx.clock.Now(),
		ExpiresAt: fx.clock.Now().Add(5 * time.Minute),
	}

	out, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "wrong",
		Requirement: entity.RequirementRequired,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeInvalid, out.Outcome)
	assert.Equal(t, 2*time.Second, out.RetryAfter)

	stored := fx.store.challenges["flow-1"]
	assert.Equal(t, "bab77", stored.Code)
	assert.Equal(t, fx.clock.Now().Add(2*time.Second), stored.RetryNotBefore)

	// resubmitting inside the throttle window is rejected without evaluation
	_, err = fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeTooManyRequest, gerr.Code())

	// once the window passes, the correct code is still accepted
	fx.clock.Advance(2 * time.Second)

	out, err = fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAccepted, out.Outcome)
}

func TestVerifyAttemptedOnOptionalStep(t *testing.T) {
	for _, req := range []entity.Requirement{entity.RequirementAlternative, entity.RequirementConditional} {
		t.Run(req.String(), func(t *testing.T) {
			fx := newFixture(t)
			fx.store.challenges["flow-1"] = entity.Challenge{
				Code:      "bab77",
				IssuedAt:  fx.clock.Now(),
				ExpiresAt: fx.clock.Now().Add(5 * time.Minute),
			}

			out, err := fx.uc.Verify(context.Background(), VerifyInput{
				FlowID:      "flow-1",
				Code:        "wrong",
				Requirement: req,
			})
			require.NoError(t, err)

			assert.Equal(t, entity.OutcomeAttempted, out.Outcome)

			// no throttle and no mutation of the stored challenge
			stored := fx.store.challenges["flow-1"]
			assert.Equal(t, "bab77", stored.Code)
			assert.True(t, stored.RetryNotBefore.IsZero())
		})
	}
}

func TestVerifyMissingChallengeIsServerError(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeServer, gerr.Type())
}

func TestVerifyUnknownRequirement(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementUnknown,
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeValidation, gerr.Type())
}

func TestVerifyStoreFailure(t *testing.T) {
	fx := newFixture(t)
	fx.store.getErr = errors.New("redis down")

	_, err := fx.uc.Verify(context.Background(), VerifyInput{
		FlowID:      "flow-1",
		Code:        "bab77",
		Requirement: entity.RequirementRequired,
	})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.TypeServer, gerr.Type())
}

func TestApplicableWithMobileNumber(t *testing.T) {
	fx := newFixture(t)
	fx.directory.mobiles["user-1"] = "4510101010"

	out, err := fx.uc.Applicable(context.Background(), ApplicableInput{IdentityID: "user-1"})
	require.NoError(t, err)

	assert.True(t, out.Applicable)
	assert.Empty(t, fx.directory.actions["user-1"])
}

func TestApplicableSchedulesEnrollment(t *testing.T) {
	fx := newFixture(t)

	out, err := fx.uc.Applicable(context.Background(), ApplicableInput{IdentityID: "user-1"})
	require.NoError(t, err)

	assert.False(t, out.Applicable)
	assert.Equal(t, []string{entity.RequiredActionEnrollMobile}, fx.directory.actions["user-1"])
}

package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/otp/usecase"
	"github.com/shandysiswandi/smsfactor/internal/pkg/config"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"github.com/shandysiswandi/smsfactor/internal/pkg/router"
	"github.com/shandysiswandi/smsfactor/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	challengeOut *usecase.ChallengeOutput
	challengeErr error
	verifyOut    *usecase.VerifyOutput
	verifyErr    error
	appOut       *usecase.ApplicableOutput
	appErr       error

	gotChallenge usecase.ChallengeInput
	gotVerify    usecase.VerifyInput
	gotApp       usecase.ApplicableInput
}

func (f *fakeUC) Challenge(_ context.Context, in usecase.ChallengeInput) (*usecase.ChallengeOutput, error) {
	f.gotChallenge = in
	return f.challengeOut, f.challengeErr
}

func (f *fakeUC) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.gotVerify = in
	return f.verifyOut, f.verifyErr
}

func (f *fakeUC) Applicable(_ context.Context, in usecase.ApplicableInput) (*usecase.ApplicableOutput, error) {
	f.gotApp = in
	return f.appOut, f.appErr
}

func newTestRouter(t *testing.T, uc uc) *router.Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  tz: UTC\n"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cfg.Close() })

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	return r
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   map[string]any  `json:"error"`
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec.Code, env
}

func TestChallengeEndpoint(t *testing.T) {
	expiresAt := time.Date(2026, 8, 27, 10, 5, 0, 0, time.UTC)
	uc := &fakeUC{challengeOut: &usecase.ChallengeOutput{ExpiresAt: expiresAt}}
	r := newTestRouter(t, uc)

	status, env := doJSON(t, r, http.MethodPost, "/api/v1/otp/challenge",
		`{"flow_id":"flow-1","identity_id":"user-1","locale":"da"}`)

	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "flow-1", uc.gotChallenge.FlowID)
	assert.Equal(t, "user-1", uc.gotChallenge.IdentityID)
	assert.Equal(t, "da", uc.gotChallenge.Locale)

	var resp ChallengeResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, expiresAt.Equal(resp.ExpiresAt))
}

func TestChallengeEndpointRejectsUnknownFields(t *testing.T) {
	uc := &fakeUC{challengeOut: &usecase.ChallengeOutput{}}
	r := newTestRouter(t, uc)

	status, _ := doJSON(t, r, http.MethodPost, "/api/v1/otp/challenge",
		`{"flow_id":"flow-1","identity_id":"user-1","surprise":true}`)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestVerifyEndpoint(t *testing.T) {
	uc := &fakeUC{verifyOut: &usecase.VerifyOutput{
		Outcome:    entity.OutcomeInvalid,
		RetryAfter: 2 * time.Second,
	}}
	r := newTestRouter(t, uc)

	status, env := doJSON(t, r, http.MethodPost, "/api/v1/otp/verify",
		`{"flow_id":"flow-1","code":"bab77","requirement":"required"}`)

	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, "flow-1", uc.gotVerify.FlowID)
	assert.Equal(t, "bab77", uc.gotVerify.Code)
	assert.Equal(t, entity.RequirementRequired, uc.gotVerify.Requirement)

	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "invalid", resp.Outcome)
	assert.Equal(t, int64(2), resp.RetryAfterSeconds)
}

func TestVerifyEndpointThrottled(t *testing.T) {
	uc := &fakeUC{verifyErr: goerror.NewBusiness("please wait before retrying", goerror.CodeTooManyRequest)}
	r := newTestRouter(t, uc)

	status, env := doJSON(t, r, http.MethodPost, "/api/v1/otp/verify",
		`{"flow_id":"flow-1","code":"bab77","requirement":"required"}`)

	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "please wait before retrying", env.Message)
}

func TestApplicableEndpoint(t *testing.T) {
	uc := &fakeUC{appOut: &usecase.ApplicableOutput{Applicable: true}}
	r := newTestRouter(t, uc)

	status, env := doJSON(t, r, http.MethodGet, "/api/v1/otp/applicable/user-1", "")

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-1", uc.gotApp.IdentityID)

	var resp ApplicableResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Applicable)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t, &fakeUC{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

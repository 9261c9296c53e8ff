package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/smsfactor/internal/otp/entity"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

const (
	flowKeyPrefix = "otp:flow:"

	fieldCode           = "code"
	fieldIssuedAt       = "issued_at"
	fieldExpiresAt      = "expires_at"
	fieldRetryNotBefore = "retry_not_before"

	// retentionGrace keeps an expired challenge around past its validity so
	// a late submission reads "expired" instead of "missing". Missing state
	// is treated as a server fault by the verifier.
	retentionGrace = 30 * time.Minute
)

// Store persists per-flow challenge state in Redis hashes.
type Store struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

// NewStore returns a Redis-backed session store.
func NewStore(client *redis.Client, ins instrument.Instrumentation) *Store {
	return &Store{client: client, ins: ins}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.redisstore").Start(ctx, name)
}

func flowKey(flowID string) string {
	return flowKeyPrefix + flowID
}

// PutChallenge stores the challenge for a flow, replacing any prior one.
func (s *Store) PutChallenge(ctx context.Context, flowID string, ch entity.Challenge) error {
	ctx, span := s.startSpan(ctx, "PutChallenge")
	defer span.End()

	key := flowKey(flowID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		fieldCode, ch.Code,
		fieldIssuedAt, ch.IssuedAt.Format(time.RFC3339Nano),
		fieldExpiresAt, ch.ExpiresAt.Format(time.RFC3339Nano),
	)
	pipe.ExpireAt(ctx, key, ch.ExpiresAt.Add(retentionGrace))

	_, err := pipe.Exec(ctx)

	return err
}

// GetChallenge loads the challenge for a flow.
func (s *Store) GetChallenge(ctx context.Context, flowID string) (*entity.Challenge, error) {
	ctx, span := s.startSpan(ctx, "GetChallenge")
	defer span.End()

	fields, err := s.client.HGetAll(ctx, flowKey(flowID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}

	issuedAt, err := time.Parse(time.RFC3339Nano, fields[fieldIssuedAt])
	if err != nil {
		return nil, err
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, fields[fieldExpiresAt])
	if err != nil {
		return nil, err
	}

	ch := &entity.Challenge{
		Code:      fields[fieldCode],
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	if raw, ok := fields[fieldRetryNotBefore]; ok && raw != "" {
		retryNotBefore, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		ch.RetryNotBefore = retryNotBefore
	}

	return ch, nil
}

// SetRetryNotBefore arms the resubmission throttle for a flow.
func (s *Store) SetRetryNotBefore(ctx context.Context, flowID string, at time.Time) error {
	ctx, span := s.startSpan(ctx, "SetRetryNotBefore")
	defer span.End()

	return s.client.HSet(ctx, flowKey(flowID), fieldRetryNotBefore, at.Format(time.RFC3339Nano)).Err()
}

// ClearChallenge removes the challenge for a flow.
func (s *Store) ClearChallenge(ctx context.Context, flowID string) error {
	ctx, span := s.startSpan(ctx, "ClearChallenge")
	defer span.End()

	return s.client.Del(ctx, flowKey(flowID)).Err()
}

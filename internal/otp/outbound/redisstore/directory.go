package redisstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/smsfactor/internal/pkg/goerror"
	"github.com/shandysiswandi/smsfactor/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

const (
	identityKeyPrefix = "identity:"

	fieldMobileNumber   = "mobile_number"
	requiredActionsPart = ":required_actions"
)

// Directory reads identity attributes mirrored into Redis by the identity
// host and schedules required actions for it to pick up.
type Directory struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

// NewDirectory returns a Redis-backed identity directory.
func NewDirectory(client *redis.Client, ins instrument.Instrumentation) *Directory {
	return &Directory{client: client, ins: ins}
}

func (d *Directory) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return d.ins.Tracer("otp.redisstore").Start(ctx, name)
}

func identityKey(identityID string) string {
	return identityKeyPrefix + identityID
}

func requiredActionsKey(identityID string) string {
	return identityKeyPrefix + identityID + requiredActionsPart
}

// MobileNumber returns the identity's enrolled phone number.
func (d *Directory) MobileNumber(ctx context.Context, identityID string) (string, error) {
	ctx, span := d.startSpan(ctx, "MobileNumber")
	defer span.End()

	mobile, err := d.client.HGet(ctx, identityKey(identityID), fieldMobileNumber).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if mobile == "" {
		return "", goerror.ErrNotFound
	}

	return mobile, nil
}

// AddRequiredAction schedules an action on the identity. Adding the same
// action twice is a no-op.
func (d *Directory) AddRequiredAction(ctx context.Context, identityID, action string) error {
	ctx, span := d.startSpan(ctx, "AddRequiredAction")
	defer span.End()

	return d.client.SAdd(ctx, requiredActionsKey(identityID), action).Err()
}

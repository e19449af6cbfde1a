package minting

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/redis"
)

const idempotencyScope = "minting-webhook"

// IdempotencyGuard deduplicates webhook deliveries by job id. A delivery is
// marked before processing and unmarked if processing fails, so a retry can
// land.
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) (*IdempotencyGuard, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("idempotency ttl must be positive")
	}
	return &IdempotencyGuard{client: client, ttl: ttl}, nil
}

// CheckAndMark reports whether the job was already seen, marking it if not.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, jobID string) (bool, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return false, errors.New("job id is required")
	}
	set, err := g.client.SetNX(ctx, g.client.IdempotencyKey(idempotencyScope, jobID), "1", g.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Release unmarks a job so a failed delivery can be retried.
func (g *IdempotencyGuard) Release(ctx context.Context, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return errors.New("job id is required")
	}
	return g.client.Del(ctx, g.client.IdempotencyKey(idempotencyScope, jobID))
}

package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"

	"pointsdraw/internal/models"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// RandomnessOracle accepts randomness jobs. Values come back asynchronously
// through the callback endpoint.
type RandomnessOracle interface {
	RequestRandomness(ctx context.Context, jobID string) error
}

type PrizeCustody interface {
	Transfer(ctx context.Context, transfer *models.PrizeTransfer) error
}

type Announcer interface {
	AnnounceTransfer(ctx context.Context, transfer *models.PrizeTransfer) error
}

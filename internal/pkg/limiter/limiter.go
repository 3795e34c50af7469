package limiter

import (
	"context"
	"errors"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("rate limited")

type Limiter struct {
	limiter *redis_rate.Limiter
}

func NewLimiter(client redis.UniversalClient) (*Limiter, error) {
	if client == nil {
		return nil, errors.New("limiter: nil redis client")
	}
	return &Limiter{redis_rate.NewLimiter(client)}, nil
}

// Allow consumes one token from key's bucket.
func (l *Limiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	res, err := l.limiter.Allow(ctx, "rate:"+key, limit)
	if err != nil {
		return err
	}
	if res.Allowed == 0 {
		return ErrRateLimited
	}
	return nil
}

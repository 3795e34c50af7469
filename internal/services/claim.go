package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/interfaces"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
	"pointsdraw/internal/pkg/caching"
	"pointsdraw/internal/pkg/metrics"
	"pointsdraw/internal/pkg/randrange"
)

type ServiceClaim struct {
	container         *do.Injector
	postgresDB        *bun.DB
	rs                *redsync.Redsync
	cache             caching.Cache
	limiter           interfaces.Limiter
	serviceConfig     *ServiceConfig
	serviceRandomness *ServiceRandomness
}

func NewServiceClaim(container *do.Injector) (*ServiceClaim, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	rs, err := do.Invoke[*redsync.Redsync](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	limiter, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceRandomness, err := do.Invoke[*ServiceRandomness](container)
	if err != nil {
		return nil, err
	}

	return &ServiceClaim{container, postgresDB, rs, cache, limiter, serviceConfig, serviceRandomness}, nil
}

// ClaimPrize spends the prize cost of account and hands it one prize, chosen
// by the oldest unconsumed randomness outcome. Nothing is written unless
// every step succeeds.
func (service *ServiceClaim) ClaimPrize(ctx context.Context, account string) (transfer *models.PrizeTransfer, err error) {
	defer func() {
		metrics.ClaimsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	normalized, err := address.Normalize(account)
	if err != nil {
		return nil, err
	}

	limit, err := service.serviceConfig.GetIntConfig(ctx, CONFIG_CLAIM_RATE_LIMIT_PER_MINUTE, CLAIM_RATE_LIMIT_PER_MINUTE)
	if err != nil {
		slog.WarnContext(ctx, "claim rate limit config", "error", err)
	}
	if limit <= 0 {
		limit = CLAIM_RATE_LIMIT_PER_MINUTE
	}
	if err := service.limiter.Allow(ctx, LimitKeyClaim(normalized), redis_rate.PerMinute(limit)); err != nil {
		return nil, err
	}

	err = withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		var err error
		transfer, err = claimPrize(ctx, tx, normalized)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, service.cache, DBKeyPrizes(), DBKeyBalances(), DBKeyBalance(normalized))
	slog.InfoContext(ctx, "prize claimed", "account", normalized, "item_id", transfer.ItemID, "job_id", transfer.JobID)

	service.autoRequestRandomness(ctx)
	return transfer, nil
}

func claimPrize(ctx context.Context, tx bun.Tx, account string) (*models.PrizeTransfer, error) {
	state, err := datastore.GetLedgerState(ctx, tx)
	if err != nil {
		return nil, err
	}

	balance, err := datastore.GetAccountBalance(ctx, tx, account)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if balance.LifetimeBalance == 0 {
		return nil, models.ErrUnauthorized
	}

	outcome, err := datastore.GetFirstAvailableOutcome(ctx, tx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNoRandomnessAvailable
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	consumed, err := datastore.ConsumeOutcome(ctx, tx, outcome.JobID, account, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, models.ErrNoRandomnessAvailable
	}

	if err := balance.Spend(state.PrizeCost); err != nil {
		return nil, err
	}
	if err := datastore.UpdateAccountBalance(ctx, tx, balance); err != nil {
		return nil, err
	}

	count, err := datastore.CountPrizes(ctx, tx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrEmptyPrizePool
	}

	randomness, err := outcome.Value()
	if err != nil {
		return nil, err
	}
	index, err := randrange.IntInRange(randomness, uint64(count))
	if err != nil {
		return nil, err
	}

	prize, err := datastore.RemovePrizeAt(ctx, tx, int(index))
	if err != nil {
		return nil, err
	}

	transfer := &models.PrizeTransfer{
		Recipient: account,
		Custodian: prize.Custodian,
		ItemID:    prize.ItemID,
		JobID:     outcome.JobID,
		Status:    models.TransferStatusPending,
		CreatedAt: now,
	}
	if err := datastore.InsertPrizeTransfer(ctx, tx, transfer); err != nil {
		return nil, err
	}

	return transfer, nil
}

// autoRequestRandomness replaces the consumed outcome when enabled. Failures
// are logged only; the claim has already committed.
func (service *ServiceClaim) autoRequestRandomness(ctx context.Context) {
	enabled, err := service.serviceConfig.GetBoolConfig(ctx, CONFIG_AUTO_REQUEST_RANDOMNESS, false)
	if err != nil {
		slog.WarnContext(ctx, "auto request randomness config", "error", err)
		return
	}
	if !enabled {
		return
	}

	if _, err := service.serviceRandomness.request(ctx, requestedBySystem); err != nil {
		slog.WarnContext(ctx, "auto request randomness failed", "error", err)
	}
}

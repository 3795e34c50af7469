package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
	"pointsdraw/internal/pkg/caching"
)

type ServicePrizePool struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	rs                 *redsync.Redsync
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServicePrizePool(container *do.Injector) (*ServicePrizePool, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
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

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServicePrizePool{container, postgresDB, readonlyPostgresDB, rs, cache, readonlyCache}, nil
}

// Deposit appends a prize received from custodian to the end of the pool.
func (service *ServicePrizePool) Deposit(ctx context.Context, custodian string, itemID string) (*models.Prize, error) {
	normalized, err := address.Normalize(custodian)
	if err != nil {
		return nil, err
	}

	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, models.ErrInvalidPrize
	}

	prize := &models.Prize{Custodian: normalized, ItemID: itemID}
	err = withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		if _, err := datastore.GetLedgerState(ctx, tx); err != nil {
			return err
		}

		exists, err := datastore.PrizeExists(ctx, tx, normalized, itemID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: item %s already in pool", models.ErrInvalidPrize, itemID)
		}

		return datastore.InsertPrize(ctx, tx, prize)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, service.cache, DBKeyPrizes())
	slog.InfoContext(ctx, "prize deposited", "custodian", normalized, "item_id", itemID, "prize_id", prize.ID)
	return prize, nil
}

// GetPrizes lists the pool in insertion order.
func (service *ServicePrizePool) GetPrizes(ctx context.Context) ([]models.Prize, error) {
	callback := func() ([]models.Prize, error) {
		return datastore.GetPrizes(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyPrizes(), CACHE_TTL_15_SECONDS, callback)
}

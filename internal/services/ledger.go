package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redsync/redsync/v4"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
	"pointsdraw/internal/pkg/caching"
)

// withLedger runs fn as one transaction while holding the ledger-wide
// mutex. Every state change goes through here.
func withLedger(ctx context.Context, rs *redsync.Redsync, db *bun.DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	mutex := rs.NewMutex(LockKeyLedger())
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerLock, err)
	}
	// nolint:errcheck
	defer mutex.Unlock()

	return db.RunInTx(ctx, datastore.TxOptions(db), fn)
}

func invalidate(ctx context.Context, cache caching.Cache, keys ...string) {
	if err := caching.Invalidate(ctx, cache, keys...); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}

// requireAdmin checks caller against the stored admin.
func requireAdmin(state *models.LedgerState, caller string) error {
	if !address.Equal(caller, state.Admin) {
		return models.ErrUnauthorized
	}
	return nil
}

type ServiceLedger struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	rs                 *redsync.Redsync
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceLedger(container *do.Injector) (*ServiceLedger, error) {
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

	return &ServiceLedger{container, postgresDB, readonlyPostgresDB, rs, cache, readonlyCache}, nil
}

// Instantiate creates the ledger state. It can succeed only once.
func (service *ServiceLedger) Instantiate(ctx context.Context, params models.InstantiateParams, version string) (*models.LedgerState, error) {
	admin, err := address.Normalize(params.Admin)
	if err != nil {
		return nil, err
	}

	oracle, err := address.Normalize(params.OracleAddress)
	if err != nil {
		return nil, models.ErrInvalidProxyAddress
	}

	if err := models.CheckAmount(params.PrizeCost); err != nil {
		return nil, err
	}

	state := &models.LedgerState{
		Admin:            admin,
		Name:             params.Name,
		Symbol:           models.LedgerSymbol,
		ShortDescription: params.ShortDescription,
		OracleAddress:    oracle,
		PrizeCost:        params.PrizeCost,
		Whitelist:        []string{},
		Version:          version,
	}

	err = withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		inserted, err := datastore.InsertLedgerState(ctx, tx, state)
		if err != nil {
			return err
		}
		if !inserted {
			return models.ErrAlreadyInstantiated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, service.cache, DBKeyLedgerState())
	slog.InfoContext(ctx, "ledger instantiated", "admin", admin, "oracle", oracle, "prize_cost", params.PrizeCost, "version", version)
	return state, nil
}

func (service *ServiceLedger) GetState(ctx context.Context) (*models.LedgerState, error) {
	callback := func() (*models.LedgerState, error) {
		return datastore.GetLedgerState(ctx, service.readonlyPostgresDB)
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyLedgerState(), CACHE_TTL_1_MIN, callback)
}

func (service *ServiceLedger) GetPrizeCost(ctx context.Context) (uint64, error) {
	state, err := service.GetState(ctx)
	if err != nil {
		return 0, err
	}
	return state.PrizeCost, nil
}

func (service *ServiceLedger) SetAdmin(ctx context.Context, caller string, newAdmin string) (*models.LedgerState, error) {
	normalized, err := address.Normalize(newAdmin)
	if err != nil {
		return nil, err
	}

	state, err := service.updateState(ctx, caller, func(state *models.LedgerState) []string {
		state.Admin = normalized
		return []string{"admin"}
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "admin changed", "admin", normalized)
	return state, nil
}

func (service *ServiceLedger) SetPrizeCost(ctx context.Context, caller string, cost uint64) (*models.LedgerState, error) {
	if err := models.CheckAmount(cost); err != nil {
		return nil, err
	}

	state, err := service.updateState(ctx, caller, func(state *models.LedgerState) []string {
		state.PrizeCost = cost
		return []string{"prize_cost"}
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "prize cost changed", "prize_cost", cost)
	return state, nil
}

func (service *ServiceLedger) updateState(ctx context.Context, caller string, mutate func(state *models.LedgerState) []string) (*models.LedgerState, error) {
	var state *models.LedgerState
	err := withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		var err error
		state, err = datastore.GetLedgerState(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireAdmin(state, caller); err != nil {
			return err
		}

		return datastore.UpdateLedgerState(ctx, tx, state, mutate(state)...)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, service.cache, DBKeyLedgerState())
	return state, nil
}

// GrantPoints adds amount to the account's lifetime balance, creating the
// account on first grant.
func (service *ServiceLedger) GrantPoints(ctx context.Context, caller string, account string, amount uint64) (*models.AccountBalance, error) {
	normalized, err := address.Normalize(account)
	if err != nil {
		return nil, err
	}

	var balance *models.AccountBalance
	err = withLedger(ctx, service.rs, service.postgresDB, func(ctx context.Context, tx bun.Tx) error {
		state, err := datastore.GetLedgerState(ctx, tx)
		if err != nil {
			return err
		}
		if err := requireAdmin(state, caller); err != nil {
			return err
		}

		balance, err = datastore.GetAccountBalance(ctx, tx, normalized)
		if errors.Is(err, sql.ErrNoRows) {
			balance = &models.AccountBalance{Address: normalized}
			if err := balance.Grant(amount); err != nil {
				return err
			}
			return datastore.InsertAccountBalance(ctx, tx, balance)
		}
		if err != nil {
			return err
		}

		if err := balance.Grant(amount); err != nil {
			return err
		}
		return datastore.UpdateAccountBalance(ctx, tx, balance)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, service.cache, DBKeyBalances(), DBKeyBalance(normalized))
	slog.InfoContext(ctx, "points granted", "account", normalized, "amount", amount, "lifetime_balance", balance.LifetimeBalance)
	return balance, nil
}

func (service *ServiceLedger) GetBalances(ctx context.Context) ([]models.BalanceEntry, error) {
	callback := func() ([]models.BalanceEntry, error) {
		balances, err := datastore.GetAccountBalances(ctx, service.readonlyPostgresDB)
		if err != nil {
			return nil, err
		}

		entries := make([]models.BalanceEntry, 0, len(balances))
		for _, balance := range balances {
			entries = append(entries, models.BalanceEntry{
				Address:         balance.Address,
				LifetimeBalance: balance.LifetimeBalance,
				SpentBalance:    balance.SpentBalance,
			})
		}
		return entries, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyBalances(), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceLedger) GetAccountBalance(ctx context.Context, account string) (*models.AccountBalance, error) {
	normalized, err := address.Normalize(account)
	if err != nil {
		return nil, err
	}

	callback := func() (*models.AccountBalance, error) {
		balance, err := datastore.GetAccountBalance(ctx, service.readonlyPostgresDB, normalized)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrAccountNotFound
		}
		return balance, err
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyBalance(normalized), CACHE_TTL_15_SECONDS, callback)
}

func (service *ServiceLedger) GetBalance(ctx context.Context, account string, kind models.BalanceKind) (uint64, error) {
	balance, err := service.GetAccountBalance(ctx, account)
	if err != nil {
		return 0, err
	}
	return balance.Balance(kind)
}

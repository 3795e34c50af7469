package services_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis_rate/v10"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore/datastoretest"
	"pointsdraw/internal/interfaces"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/caching"
	"pointsdraw/internal/services"
)

var (
	adminAddr  = rawAddr("a")
	oracleAddr = rawAddr("b")
	userAddr   = rawAddr("c")
	otherAddr  = rawAddr("d")
	custodian  = rawAddr("e")
)

func rawAddr(c string) string {
	return "0:" + strings.Repeat(c, 64)
}

func randomnessHex(b byte) string {
	return hex.EncodeToString(bytes.Repeat([]byte{b}, models.RandomnessSize))
}

type fakeOracle struct {
	mu   sync.Mutex
	jobs []string
	err  error
}

func (f *fakeOracle) RequestRandomness(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, jobID)
	return nil
}

type fakeCustody struct {
	mu        sync.Mutex
	transfers []int64
	err       error

	// when set, Transfer reports the id on started and waits for release
	started chan int64
	release chan struct{}
}

func (f *fakeCustody) sent() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.transfers...)
}

func (f *fakeCustody) Transfer(ctx context.Context, transfer *models.PrizeTransfer) error {
	if f.started != nil {
		f.started <- transfer.ID
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.transfers = append(f.transfers, transfer.ID)
	return nil
}

type fakeAnnouncer struct {
	mu        sync.Mutex
	announced []int64
}

func (f *fakeAnnouncer) AnnounceTransfer(ctx context.Context, transfer *models.PrizeTransfer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announced = append(f.announced, transfer.ID)
	return nil
}

type fakeLimiter struct {
	err error
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit redis_rate.Limit) error {
	return f.err
}

type testEnv struct {
	container *do.Injector
	db        *bun.DB
	redis     redis.UniversalClient
	mr        *miniredis.Miniredis
	oracle    *fakeOracle
	custody   *fakeCustody
	announcer *fakeAnnouncer
	limiter   *fakeLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := datastoretest.NewDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	env := &testEnv{
		container: do.New(),
		db:        db,
		redis:     client,
		mr:        mr,
		oracle:    &fakeOracle{},
		custody:   &fakeCustody{},
		announcer: &fakeAnnouncer{},
		limiter:   &fakeLimiter{},
	}

	injector := env.container
	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return db, nil
	})
	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		return db, nil
	})
	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return client, nil
	})
	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		return caching.NewCacheRedis(client, false)
	})
	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		return caching.NewCacheRedis(client, false)
	})
	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		return redsync.New(goredis.NewPool(client)), nil
	})
	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		return env.limiter, nil
	})
	do.Provide(injector, func(i *do.Injector) (interfaces.RandomnessOracle, error) {
		return env.oracle, nil
	})
	do.Provide(injector, func(i *do.Injector) (interfaces.PrizeCustody, error) {
		return env.custody, nil
	})
	do.Provide(injector, func(i *do.Injector) (interfaces.Announcer, error) {
		return env.announcer, nil
	})
	services.Provide(injector)

	return env
}

func (env *testEnv) ledger() *services.ServiceLedger {
	return do.MustInvoke[*services.ServiceLedger](env.container)
}

func (env *testEnv) pool() *services.ServicePrizePool {
	return do.MustInvoke[*services.ServicePrizePool](env.container)
}

func (env *testEnv) randomness() *services.ServiceRandomness {
	return do.MustInvoke[*services.ServiceRandomness](env.container)
}

func (env *testEnv) claim() *services.ServiceClaim {
	return do.MustInvoke[*services.ServiceClaim](env.container)
}

func (env *testEnv) transfer() *services.ServiceTransfer {
	return do.MustInvoke[*services.ServiceTransfer](env.container)
}

func (env *testEnv) config() *services.ServiceConfig {
	return do.MustInvoke[*services.ServiceConfig](env.container)
}

// instantiate sets up a ledger with the given prize cost.
func (env *testEnv) instantiate(t *testing.T, cost uint64) {
	t.Helper()
	_, err := env.ledger().Instantiate(context.Background(), models.InstantiateParams{
		Admin:            adminAddr,
		OracleAddress:    oracleAddr,
		PrizeCost:        cost,
		ShortDescription: "points for prizes",
		Name:             "Points",
	}, "0.1.0")
	require.NoError(t, err)
}

func (env *testEnv) grant(t *testing.T, account string, amount uint64) {
	t.Helper()
	_, err := env.ledger().GrantPoints(context.Background(), adminAddr, account, amount)
	require.NoError(t, err)
}

func (env *testEnv) deposit(t *testing.T, itemID string) {
	t.Helper()
	_, err := env.pool().Deposit(context.Background(), custodian, itemID)
	require.NoError(t, err)
}

func (env *testEnv) deliver(t *testing.T, jobID string, b byte) {
	t.Helper()
	require.NoError(t, env.randomness().ReceiveRandomness(context.Background(), oracleAddr, jobID, randomnessHex(b)))
}

var errBoom = errors.New("boom")

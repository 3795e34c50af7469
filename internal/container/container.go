// Package container wires the infrastructure and services shared by the
// binaries into one samber/do injector.
package container

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"pointsdraw/internal/interfaces"
	"pointsdraw/internal/pkg/caching"
	"pointsdraw/internal/pkg/limiter"
	"pointsdraw/internal/pkg/remote"
	"pointsdraw/internal/services"
)

const remoteTimeout = 10 * time.Second

// Optional settings copied into the "envs" map when present.
var optionalEnvs = []string{
	"API_MODE",
	"API_ORIGINS",
	"API_PUBLIC_URL",
	"CUSTODY_API_KEY",
	"CUSTODY_URL",
	"ORACLE_API_KEY",
	"ORACLE_URL",
	"BOT_TOKEN",
	"ANNOUNCE_CHAT_ID",
	"REMOTE_RETRY_COUNT",
	"LOG_FILE",
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()
	for _, key := range optionalEnvs {
		if _, ok := vs[key]; !ok {
			vs[key] = os.Getenv(key)
		}
	}

	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return openDB(os.Getenv("DB_DSN"), os.Getenv("DB_PASSWORD")), nil
	})

	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		dsn := os.Getenv("DB_DSN_READONLY")
		if dsn == "" {
			return do.Invoke[*bun.DB](i)
		}
		return openDB(dsn, os.Getenv("DB_PASSWORD_READONLY")), nil
	})

	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return openRedis("CLUSTER_REDIS_DB", "REDIS_DB", false)
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return openRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE", false)
	})

	do.ProvideNamed(injector, "redis-cache-readonly", func(i *do.Injector) (redis.UniversalClient, error) {
		if os.Getenv("CLUSTER_REDIS_CACHE_READONLY") == "" && os.Getenv("REDIS_CACHE_READONLY") == "" {
			return openRedis("CLUSTER_REDIS_CACHE", "REDIS_CACHE", true)
		}
		return openRedis("CLUSTER_REDIS_CACHE_READONLY", "REDIS_CACHE_READONLY", true)
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return openRedis("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER", false)
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		return openRedis("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX", false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (caching.ReadOnlyCache, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache-readonly")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, false)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		rs := redsync.New(pool)
		return rs, nil
	})

	retryCount, _ := strconv.Atoi(vs["REMOTE_RETRY_COUNT"])

	do.Provide(injector, func(i *do.Injector) (interfaces.RandomnessOracle, error) {
		return remote.NewOracleClient(remote.Options{
			BaseURL:    vs["ORACLE_URL"],
			APIKey:     vs["ORACLE_API_KEY"],
			Timeout:    remoteTimeout,
			RetryCount: retryCount,
		}, vs["API_PUBLIC_URL"]+"/api/v1/randomness/callback"), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.PrizeCustody, error) {
		return remote.NewCustodyClient(remote.Options{
			BaseURL:    vs["CUSTODY_URL"],
			APIKey:     vs["CUSTODY_API_KEY"],
			Timeout:    remoteTimeout,
			RetryCount: retryCount,
		}), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Announcer, error) {
		chatID, _ := strconv.ParseInt(vs["ANNOUNCE_CHAT_ID"], 10, 64)
		return services.NewBot(vs["BOT_TOKEN"], chatID)
	})

	do.Provide(injector, func(i *do.Injector) (*services.Authentication, error) {
		return services.NewAuthentication(vs["JWT_SECRET"])
	})

	services.Provide(injector)

	return injector
}

func openDB(dsn, password string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(password),
	))

	return bun.NewDB(sqldb, pgdialect.New())
}

func openRedis(clusterEnv, urlEnv string, readOnly bool) (redis.UniversalClient, error) {
	if clusterURL := os.Getenv(clusterEnv); clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		clusterOpts.ReadOnly = readOnly
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(urlEnv),
	})
}

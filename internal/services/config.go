package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/samber/do"
	"github.com/uptrace/bun"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/pkg/caching"
)

type ServiceConfig struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readOnlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, postgresDB, readonlyPostgresDB, cache, readOnlyCache}, nil
}

// GetStringConfig returns defaultValue when the key was never set.
func (service *ServiceConfig) GetStringConfig(ctx context.Context, key string, defaultValue string) (string, error) {
	callback := func() (string, error) {
		config, err := datastore.GetConfigByKey(ctx, service.readonlyPostgresDB, key)
		if errors.Is(err, sql.ErrNoRows) {
			return defaultValue, nil
		}
		if err != nil {
			return defaultValue, err
		}
		return config.Value, nil
	}

	value, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := service.GetStringConfig(ctx, key, strconv.Itoa(defaultValue))
	if err != nil {
		return defaultValue, err
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, err
	}

	return intValue, nil
}

func (service *ServiceConfig) GetBoolConfig(ctx context.Context, key string, defaultValue bool) (bool, error) {
	value, err := service.GetStringConfig(ctx, key, strconv.FormatBool(defaultValue))
	if err != nil {
		return defaultValue, err
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue, err
	}

	return boolValue, nil
}

func (service *ServiceConfig) SetConfig(ctx context.Context, key string, value string) error {
	err := datastore.UpsertConfig(ctx, service.postgresDB, key, value)
	if err != nil {
		return err
	}

	return caching.Invalidate(ctx, service.cache, DBKeyConfig(key))
}

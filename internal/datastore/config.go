package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"pointsdraw/internal/models"
)

func CreateTableConfig(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetConfigByKey(ctx context.Context, db bun.IDB, key string) (*models.Config, error) {
	var config models.Config
	err := db.NewSelect().Model(&config).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func UpsertConfig(ctx context.Context, db bun.IDB, key, value string) error {
	config := &models.Config{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := db.NewInsert().Model(config).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

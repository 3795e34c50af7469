package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"pointsdraw/internal/models"
)

func CreateTableAccountBalance(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.AccountBalance)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetAccountBalance(ctx context.Context, db bun.IDB, address string) (*models.AccountBalance, error) {
	var balance models.AccountBalance
	err := db.NewSelect().Model(&balance).Where("address = ?", address).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &balance, nil
}

func GetAccountBalances(ctx context.Context, db bun.IDB) ([]models.AccountBalance, error) {
	var balances []models.AccountBalance
	err := db.NewSelect().Model(&balances).Order("address ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return balances, nil
}

func InsertAccountBalance(ctx context.Context, db bun.IDB, balance *models.AccountBalance) error {
	now := time.Now().UTC()
	balance.CreatedAt = now
	balance.UpdatedAt = now
	_, err := db.NewInsert().Model(balance).Exec(ctx)
	return err
}

func UpdateAccountBalance(ctx context.Context, db bun.IDB, balance *models.AccountBalance) error {
	balance.UpdatedAt = time.Now().UTC()
	_, err := db.NewUpdate().Model(balance).
		Column("lifetime_balance", "spent_balance", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}

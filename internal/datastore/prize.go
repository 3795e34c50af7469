package datastore

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"pointsdraw/internal/models"
)

func CreateTablePrizePool(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Prize)(nil)).IfNotExists().Exec(ctx)
	return err
}

func InsertPrize(ctx context.Context, db bun.IDB, prize *models.Prize) error {
	if prize.DepositedAt.IsZero() {
		prize.DepositedAt = time.Now().UTC()
	}
	_, err := db.NewInsert().Model(prize).Exec(ctx)
	return err
}

// GetPrizes lists the pool in insertion order.
func GetPrizes(ctx context.Context, db bun.IDB) ([]models.Prize, error) {
	prizes := []models.Prize{}
	err := db.NewSelect().Model(&prizes).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return prizes, nil
}

func CountPrizes(ctx context.Context, db bun.IDB) (int, error) {
	return db.NewSelect().Model((*models.Prize)(nil)).Count(ctx)
}

// RemovePrizeAt deletes and returns the index-th prize in insertion order.
func RemovePrizeAt(ctx context.Context, db bun.IDB, index int) (*models.Prize, error) {
	if index < 0 {
		return nil, models.ErrPrizeIndexOutOfRange
	}

	var prize models.Prize
	err := db.NewSelect().Model(&prize).Order("id ASC").Offset(index).Limit(1).Scan(ctx)
	if err == sql.ErrNoRows {
		count, cerr := CountPrizes(ctx, db)
		if cerr != nil {
			return nil, cerr
		}
		if count == 0 {
			return nil, models.ErrEmptyPrizePool
		}
		return nil, models.ErrPrizeIndexOutOfRange
	}
	if err != nil {
		return nil, err
	}

	res, err := db.NewDelete().Model(&prize).WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return nil, models.ErrPrizeIndexOutOfRange
	}

	return &prize, nil
}

func PrizeExists(ctx context.Context, db bun.IDB, custodian string, itemID string) (bool, error) {
	return db.NewSelect().Model((*models.Prize)(nil)).
		Where("custodian = ?", custodian).
		Where("item_id = ?", itemID).
		Exists(ctx)
}

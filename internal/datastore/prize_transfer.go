package datastore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"pointsdraw/internal/models"
)

func CreateTablePrizeTransfer(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.PrizeTransfer)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrizeTransfer)(nil)).Index("index_prize_transfer_status").IfNotExists().Column("status").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.PrizeTransfer)(nil)).Index("index_prize_transfer_recipient").IfNotExists().Column("recipient").Exec(ctx)
	return err
}

func InsertPrizeTransfer(ctx context.Context, db bun.IDB, transfer *models.PrizeTransfer) error {
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = time.Now().UTC()
	}
	if transfer.Status == "" {
		transfer.Status = models.TransferStatusPending
	}
	_, err := db.NewInsert().Model(transfer).Exec(ctx)
	return err
}

func GetPendingTransfers(ctx context.Context, db bun.IDB, limit int) ([]models.PrizeTransfer, error) {
	transfers := []models.PrizeTransfer{}
	err := db.NewSelect().Model(&transfers).
		Where("status = ?", models.TransferStatusPending).
		Order("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return transfers, nil
}

func GetTransfersByRecipient(ctx context.Context, db bun.IDB, recipient string) ([]models.PrizeTransfer, error) {
	transfers := []models.PrizeTransfer{}
	err := db.NewSelect().Model(&transfers).
		Where("recipient = ?", recipient).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return transfers, nil
}

// ClaimTransfer moves a pending transfer to dispatching. Only one caller can
// win the claim for a given row.
func ClaimTransfer(ctx context.Context, db bun.IDB, id int64, at time.Time) (bool, error) {
	res, err := db.NewUpdate().Model((*models.PrizeTransfer)(nil)).
		Set("status = ?", models.TransferStatusDispatching).
		Set("dispatched_at = ?", at).
		Where("id = ?", id).
		Where("status = ?", models.TransferStatusPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ReleaseStaleTransfers puts transfers claimed before the given time back to
// pending. A claim that old belongs to a dispatcher that died mid-call.
func ReleaseStaleTransfers(ctx context.Context, db bun.IDB, before time.Time) (int64, error) {
	res, err := db.NewUpdate().Model((*models.PrizeTransfer)(nil)).
		Set("status = ?", models.TransferStatusPending).
		Where("status = ?", models.TransferStatusDispatching).
		Where("dispatched_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func MarkTransferSent(ctx context.Context, db bun.IDB, id int64, at time.Time) error {
	_, err := db.NewUpdate().Model((*models.PrizeTransfer)(nil)).
		Set("status = ?", models.TransferStatusSent).
		Set("sent_at = ?", at).
		Set("attempts = attempts + 1").
		Set("last_error = ?", "").
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// MarkTransferAttemptFailed records a failed dispatch. The transfer goes back
// to pending until it has used maxAttempts.
func MarkTransferAttemptFailed(ctx context.Context, db bun.IDB, transfer *models.PrizeTransfer, cause error, maxAttempts int) error {
	transfer.Attempts++
	transfer.LastError = cause.Error()
	transfer.Status = models.TransferStatusPending
	if transfer.Attempts >= maxAttempts {
		transfer.Status = models.TransferStatusFailed
	}
	_, err := db.NewUpdate().Model(transfer).
		Column("attempts", "last_error", "status").
		WherePK().
		Exec(ctx)
	return err
}

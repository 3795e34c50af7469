package datastore

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"pointsdraw/internal/models"
)

func CreateTableLedgerState(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.LedgerState)(nil)).IfNotExists().Exec(ctx)
	return err
}

// InsertLedgerState creates the singleton row and reports false when it
// already exists.
func InsertLedgerState(ctx context.Context, db bun.IDB, state *models.LedgerState) (bool, error) {
	now := time.Now().UTC()
	state.ID = models.LedgerStateID
	state.CreatedAt = now
	state.UpdatedAt = now
	res, err := db.NewInsert().Model(state).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func GetLedgerState(ctx context.Context, db bun.IDB) (*models.LedgerState, error) {
	var state models.LedgerState
	err := db.NewSelect().Model(&state).Where("id = ?", models.LedgerStateID).Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotInstantiated
	}
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// UpdateLedgerState writes the given columns of the singleton row back.
func UpdateLedgerState(ctx context.Context, db bun.IDB, state *models.LedgerState, columns ...string) error {
	state.UpdatedAt = time.Now().UTC()
	_, err := db.NewUpdate().Model(state).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	return err
}

// TxOptions picks the isolation level used by ledger transactions.
func TxOptions(db bun.IDB) *sql.TxOptions {
	if db.Dialect().Name() == dialect.PG {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

package datastore

import (
	"context"

	"github.com/uptrace/bun"
)

// CreateTables creates every table the ledger needs. It is safe to run
// repeatedly.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, create := range []func(context.Context, bun.IDB) error{
		CreateTableLedgerState,
		CreateTableAccountBalance,
		CreateTablePrizePool,
		CreateTableRandomnessOutcome,
		CreateTablePrizeTransfer,
		CreateTableConfig,
	} {
		if err := create(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

// Package datastoretest opens throwaway in-memory databases carrying the
// ledger schema.
package datastoretest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"pointsdraw/internal/datastore"
)

// NewDB returns a migrated sqlite database that lives as long as the test.
// It holds a single connection, so code under a transaction must only use
// the transaction.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	require.NoError(t, datastore.CreateTables(context.Background(), db))
	return db
}

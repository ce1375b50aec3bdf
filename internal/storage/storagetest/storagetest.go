// Package storagetest opens throwaway in-memory SQLite databases with the full schema.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func NewDB(t testing.TB) *storage.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err, "open in-memory sqlite")
	sqldb.SetMaxOpenConns(1)

	db := storage.Wrap(sqldb, storage.DialectSQLite, logger.NewNop())
	require.NoError(t, storage.CreateSchema(context.Background(), db), "create schema")

	t.Cleanup(func() { db.Close() })
	return db
}

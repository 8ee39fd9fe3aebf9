package foodbook_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/persistence"
)

// newTestDB opens a migrated in-memory sqlite database
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.Options{
		Driver: persistence.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := foodbook.MigrationsFor(persistence.MigrationDir(persistence.DriverSQLite))
	require.NoError(t, err)

	_, err = persistence.Migrate(ctx, db, persistence.DriverSQLite, migrations)
	require.NoError(t, err)

	return db
}

package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/persistence"
)

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := persistence.Open(context.Background(), persistence.Options{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrationDir(t *testing.T) {
	assert.Equal(t, "sqlite", persistence.MigrationDir("sqlite3"))
	assert.Equal(t, "sqlite", persistence.MigrationDir(" SQLite "))
	assert.Equal(t, "postgres", persistence.MigrationDir("pgx"))
	assert.Equal(t, "postgres", persistence.MigrationDir("postgresql"))
}

func TestOpenAndMigrateSQLite(t *testing.T) {
	ctx := context.Background()

	db, err := persistence.Open(ctx, persistence.Options{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := foodbook.MigrationsFor(persistence.MigrationDir("sqlite3"))
	require.NoError(t, err)

	applied, err := persistence.Migrate(ctx, db, "sqlite3", migrations)
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	again, err := persistence.Migrate(ctx, db, "sqlite3", migrations)
	require.NoError(t, err)
	assert.Empty(t, again)

	for _, table := range []string{"users", "auth_tokens", "foods", "recipes"} {
		var count int
		err := db.NewSelect().
			TableExpr("sqlite_master").
			ColumnExpr("COUNT(*)").
			Where("type = 'table' AND name = ?", table).
			Scan(ctx, &count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}

func TestMigrateUnsupportedDriver(t *testing.T) {
	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.Options{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations, err := foodbook.MigrationsFor("sqlite")
	require.NoError(t, err)

	_, err = persistence.Migrate(ctx, db, "mssql", migrations)
	assert.Error(t, err)
}

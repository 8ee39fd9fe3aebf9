package catalog

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/persistence"
)

func setupDB(t *testing.T) *bun.DB {
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

func createUser(t *testing.T, db *bun.DB, email string) *foodbook.User {
	t.Helper()

	user, err := foodbook.NewUsersRepository(db).CreateTx(context.Background(), db, &foodbook.User{
		ID:           uuid.New(),
		Name:         "user " + email,
		Email:        email,
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err)
	return user
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func float(v float64) *float64 {
	return &v
}

package foodbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/delcom/foodbook"
)

func TestUsersRepository(t *testing.T) {
	db := newTestDB(t)
	repo := foodbook.NewUsersRepository(db)
	ctx := context.Background()

	user, err := repo.CreateTx(ctx, db, &foodbook.User{
		Name:         "  Ada Lovelace ",
		Email:        " Ada@Example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.Name)

	byEmail, err := repo.FindUserByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	_, err = repo.FindUserByID(ctx, uuid.New())
	assert.True(t, foodbook.IsRecordNotFound(err))

	_, err = repo.FindUserByEmail(ctx, "nobody@example.com")
	assert.True(t, foodbook.IsRecordNotFound(err))

	updated, err := repo.UpdateProfileTx(ctx, db, user.ID, "Ada", "ada@lovelace.dev")
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "ada@lovelace.dev", updated.Email)

	require.NoError(t, repo.ResetPasswordTx(ctx, db, user.ID, "new-hash"))
	byID, err = repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", byID.PasswordHash)

	err = repo.ResetPasswordTx(ctx, db, uuid.New(), "x")
	assert.True(t, foodbook.IsRecordNotFound(err))
}

func TestAuthTokensRepository(t *testing.T) {
	db := newTestDB(t)
	users := foodbook.NewUsersRepository(db)
	tokens := foodbook.NewAuthTokensRepository(db)
	ctx := context.Background()

	user, err := users.CreateTx(ctx, db, &foodbook.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = tokens.CreateSession(ctx, user.ID, "live", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = tokens.CreateSession(ctx, user.ID, "stale", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	found, err := tokens.FindSessionToken(ctx, user.ID, "live")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	_, err = tokens.FindSessionToken(ctx, user.ID, "stale")
	assert.True(t, foodbook.IsRecordNotFound(err), "expired rows are treated as absent")

	_, err = tokens.FindSessionToken(ctx, uuid.New(), "live")
	assert.True(t, foodbook.IsRecordNotFound(err), "token is bound to its owner")

	require.NoError(t, tokens.DeleteSession(ctx, user.ID))
	_, err = tokens.FindSessionToken(ctx, user.ID, "live")
	assert.True(t, foodbook.IsRecordNotFound(err))

	require.NoError(t, tokens.DeleteSession(ctx, user.ID), "deleting nothing is fine")
}

func TestRepositoryManager(t *testing.T) {
	db := newTestDB(t)
	repo := foodbook.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())
	assert.NotPanics(t, repo.MustValidate)

	ctx := context.Background()
	err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := repo.Users().CreateTx(ctx, tx, &foodbook.User{Name: "Tx", Email: "tx@example.com", PasswordHash: "h"})
		if err != nil {
			return err
		}
		return foodbook.ErrEmailAlreadyExists
	})
	assert.ErrorIs(t, err, foodbook.ErrEmailAlreadyExists)

	_, err = repo.Users().FindUserByEmail(ctx, "tx@example.com")
	assert.True(t, foodbook.IsRecordNotFound(err), "rolled back")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = repo.RunInTx(cancelled, nil, func(context.Context, bun.Tx) error {
		t.Fatal("must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

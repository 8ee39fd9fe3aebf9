package foodbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/delcom/foodbook"
)

func TestPasswordHasher(t *testing.T) {
	h := foodbook.NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	assert.NoError(t, h.ComparePasswordAndHash("secret", hash))
	assert.ErrorIs(t, h.ComparePasswordAndHash("Secret", hash), foodbook.ErrMismatchedHashAndPassword)

	_, err = h.HashPassword("")
	assert.ErrorIs(t, err, foodbook.ErrNoEmptyString)

	err = h.ComparePasswordAndHash("secret", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, foodbook.ErrMismatchedHashAndPassword)
}

func TestPasswordHasherDefaultCost(t *testing.T) {
	h := foodbook.NewPasswordHasher(0)

	hash, err := h.HashPassword("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cost, bcrypt.DefaultCost)
}

package foodbook_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcom/foodbook"
)

func TestContextRoundTrip(t *testing.T) {
	user := &foodbook.User{ID: uuid.New(), Name: "Ada"}

	ctx := foodbook.WithContext(context.Background(), user)
	got, ok := foodbook.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, user, got)

	_, ok = foodbook.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = foodbook.FromContext(foodbook.WithContext(context.Background(), nil))
	assert.False(t, ok, "a nil user is not a user")
}

func TestAuthContext_SetOnce(t *testing.T) {
	ac := &foodbook.AuthContext{}
	assert.False(t, ac.IsAuthenticated())
	assert.True(t, ac.Principal().IsAnonymous())

	first := &foodbook.User{ID: uuid.New()}
	require.NoError(t, ac.SetAuthUser(first))
	assert.True(t, ac.IsAuthenticated())
	assert.Same(t, first, ac.AuthUser())

	err := ac.SetAuthUser(&foodbook.User{ID: uuid.New()})
	assert.ErrorIs(t, err, foodbook.ErrAuthUserAlreadySet)
	assert.Same(t, first, ac.AuthUser(), "the first user stays")
}

func TestAuthContext_NilSafe(t *testing.T) {
	var ac *foodbook.AuthContext
	assert.False(t, ac.IsAuthenticated())
	assert.Nil(t, ac.AuthUser())
	assert.Equal(t, foodbook.PrincipalAnonymous, ac.Principal().Kind)
}

func TestAuthUser_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := foodbook.AuthUser(c)
		assert.False(t, ok)
		assert.False(t, foodbook.AuthContextFrom(c).IsAuthenticated())
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestPrincipalKindString(t *testing.T) {
	assert.Equal(t, "anonymous", foodbook.Anonymous().Kind.String())
	assert.Equal(t, "session", foodbook.SessionPrincipal("a@b.com").Kind.String())
	assert.Equal(t, "token", foodbook.TokenPrincipal(uuid.New(), "t").Kind.String())
}

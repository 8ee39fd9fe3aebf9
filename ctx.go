package foodbook

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var userCtxKey = &contextKey{"user"}

// authContextLocalsKey is the fiber Locals key of the per request slot
const authContextLocalsKey = "foodbook.auth_context"

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok && raw != nil
}

// AuthContext is the per request holder of the authenticated user.
// A fresh one is installed for every request and it is written at most
// once.
type AuthContext struct {
	user      *User
	principal Principal
}

// IsAuthenticated reports whether a user has been set
func (a *AuthContext) IsAuthenticated() bool {
	return a != nil && a.user != nil
}

// AuthUser returns the user or nil
func (a *AuthContext) AuthUser() *User {
	if a == nil {
		return nil
	}
	return a.user
}

// Principal returns how the user was identified
func (a *AuthContext) Principal() Principal {
	if a == nil {
		return Anonymous()
	}
	return a.principal
}

// SetAuthUser stores the user. A second call fails.
func (a *AuthContext) SetAuthUser(user *User) error {
	return a.set(user, Anonymous())
}

func (a *AuthContext) set(user *User, principal Principal) error {
	if a.user != nil {
		return ErrAuthUserAlreadySet
	}
	a.user = user
	a.principal = principal
	return nil
}

// installAuthContext replaces any slot left on the request with an empty one
func installAuthContext(c *fiber.Ctx) *AuthContext {
	ac := &AuthContext{}
	c.Locals(authContextLocalsKey, ac)
	return ac
}

// AuthContextFrom returns the request slot, or an empty one when the
// auth middleware did not run.
func AuthContextFrom(c *fiber.Ctx) *AuthContext {
	if ac, ok := c.Locals(authContextLocalsKey).(*AuthContext); ok && ac != nil {
		return ac
	}
	return &AuthContext{}
}

// AuthUser is a shortcut for AuthContextFrom(c).AuthUser()
func AuthUser(c *fiber.Ctx) (*User, bool) {
	user := AuthContextFrom(c).AuthUser()
	return user, user != nil
}

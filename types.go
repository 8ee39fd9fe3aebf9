package foodbook

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Logger is satisfied by *slog.Logger
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	// GetTokenExpiration is the token validity in hours
	GetTokenExpiration() int
	// GetContextKey is the Locals key the resolved user is also stored under
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetAPIPrefix() string
	GetPublicPrefixes() []string
	GetLoginPath() string
	GetHomePath() string
	GetSecureCookies() bool
}

// UserStore resolves users for the auth resolver
type UserStore interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}

// CredentialStore keeps the session tokens issued at login
type CredentialStore interface {
	FindSessionToken(ctx context.Context, userID uuid.UUID, token string) (*AuthToken, error)
	CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*AuthToken, error)
	DeleteSession(ctx context.Context, userID uuid.UUID) error
}

// PrincipalSource exposes the principal stored by an upstream
// session layer, if any, along with the login token it is bound to.
type PrincipalSource interface {
	PrincipalEmail(c *fiber.Ctx) (email, token string, ok bool)
}

// TokenCodec issues and checks bearer tokens
type TokenCodec interface {
	Generate(userID uuid.UUID) (string, error)
	Validate(token string, enforceExpiry bool) bool
	ExtractUserID(token string) (uuid.UUID, bool)
	ExpiresAt(token string) (time.Time, bool)
}

// defaultLogger is used when no logger is configured
func defaultLogger() Logger {
	return slog.Default().With("component", "foodbook")
}

// DefaultLogger returns the logger packages fall back to when none is
// configured.
func DefaultLogger() Logger {
	return defaultLogger()
}

package foodbook_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/delcom/foodbook"
)

// MockUserStore implements foodbook.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindUserByID(ctx context.Context, id uuid.UUID) (*foodbook.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*foodbook.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindUserByEmail(ctx context.Context, email string) (*foodbook.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*foodbook.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCredentialStore implements foodbook.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindSessionToken(ctx context.Context, userID uuid.UUID, token string) (*foodbook.AuthToken, error) {
	args := m.Called(ctx, userID, token)
	if t, ok := args.Get(0).(*foodbook.AuthToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*foodbook.AuthToken, error) {
	args := m.Called(ctx, userID, token, expiresAt)
	if t, ok := args.Get(0).(*foodbook.AuthToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCredentialStore) DeleteSession(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTokenCodec implements foodbook.TokenCodec
type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Generate(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenCodec) Validate(token string, enforceExpiry bool) bool {
	args := m.Called(token, enforceExpiry)
	return args.Bool(0)
}

func (m *MockTokenCodec) ExtractUserID(token string) (uuid.UUID, bool) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}

func (m *MockTokenCodec) ExpiresAt(token string) (time.Time, bool) {
	args := m.Called(token)
	return args.Get(0).(time.Time), args.Bool(1)
}

// MockLogger implements foodbook.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...any) { m.Called(msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.Called(msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.Called(msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.Called(msg, args) }

// testConfig implements foodbook.Config
type testConfig struct {
	signingKey     string
	expiration     int
	publicPrefixes []string
	loginPath      string
	homePath       string
	secure         bool
}

func newTestConfig() *testConfig {
	return &testConfig{signingKey: "test-signing-key-0123456789", expiration: 24}
}

func (c *testConfig) GetSigningKey() string       { return c.signingKey }
func (c *testConfig) GetTokenExpiration() int     { return c.expiration }
func (c *testConfig) GetContextKey() string       { return "user" }
func (c *testConfig) GetTokenLookup() string      { return "header:Authorization,cookie:AUTH_TOKEN" }
func (c *testConfig) GetAuthScheme() string       { return "Bearer" }
func (c *testConfig) GetAPIPrefix() string        { return "/api" }
func (c *testConfig) GetPublicPrefixes() []string { return c.publicPrefixes }
func (c *testConfig) GetLoginPath() string        { return c.loginPath }
func (c *testConfig) GetHomePath() string         { return c.homePath }
func (c *testConfig) GetSecureCookies() bool      { return c.secure }

package foodbook_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delcom/foodbook"
)

var signingKey = []byte("test-signing-key-0123456789")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestNewTokenService(t *testing.T) {
	t.Run("uses the configured validity", func(t *testing.T) {
		ts := foodbook.NewTokenService(signingKey, 2)
		assert.Equal(t, 2*time.Hour, ts.Validity())
	})

	t.Run("falls back to one day", func(t *testing.T) {
		ts := foodbook.NewTokenService(signingKey, 0)
		assert.Equal(t, foodbook.DefaultTokenValidity, ts.Validity())
	})

	t.Run("reads key and validity from config", func(t *testing.T) {
		cfg := newTestConfig()
		cfg.expiration = 3
		ts := foodbook.NewTokenServiceFromConfig(cfg)
		assert.Equal(t, 3*time.Hour, ts.Validity())

		token, err := ts.Generate(uuid.New())
		require.NoError(t, err)
		assert.True(t, foodbook.NewTokenService(signingKey, 3).Validate(token, true))

		other := foodbook.NewTokenServiceFromConfig(&testConfig{signingKey: "another-signing-key-0123", expiration: 3})
		assert.False(t, other.Validate(token, true))
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	ts := foodbook.NewTokenService(signingKey, 24)
	userID := uuid.New()

	token, err := ts.Generate(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	assert.True(t, ts.Validate(token, true))
	assert.True(t, ts.Validate(token, false))

	got, ok := ts.ExtractUserID(token)
	require.True(t, ok)
	assert.Equal(t, userID, got)

	exp, ok := ts.ExpiresAt(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 2*time.Second)
}

func TestTokenService_DistinctTokensSameSecond(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	ts := foodbook.NewTokenService(signingKey, 1, foodbook.WithClock(clock.Now))
	userID := uuid.New()

	first, err := ts.Generate(userID)
	require.NoError(t, err)
	second, err := ts.Generate(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := foodbook.NewTokenService(signingKey, 1, foodbook.WithClock(clock.Now))
	userID := uuid.New()

	token, err := ts.Generate(userID)
	require.NoError(t, err)

	clock.now = clock.now.Add(59 * time.Minute)
	assert.True(t, ts.Validate(token, true))

	clock.now = clock.now.Add(2 * time.Minute)
	assert.False(t, ts.Validate(token, true), "expired token fails when expiry is enforced")
	assert.True(t, ts.Validate(token, false), "signature alone still checks out")

	got, ok := ts.ExtractUserID(token)
	require.True(t, ok, "extraction ignores time claims")
	assert.Equal(t, userID, got)
}

func TestTokenService_RequiresExpiry(t *testing.T) {
	ts := foodbook.NewTokenService(signingKey, 1)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: uuid.NewString(),
	})
	signed, err := token.SignedString(signingKey)
	require.NoError(t, err)

	assert.False(t, ts.Validate(signed, true))
	assert.True(t, ts.Validate(signed, false))

	_, ok := ts.ExpiresAt(signed)
	assert.False(t, ok)
}

func TestTokenService_Rejects(t *testing.T) {
	ts := foodbook.NewTokenService(signingKey, 1)
	userID := uuid.New()

	foreign, err := foodbook.NewTokenService([]byte("another-key-entirely"), 1).Generate(userID)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	wrongAlg, err := hs512.SignedString(signingKey)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := ts.Generate(userID)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not-a-jwt",
		"two segments":  "abc.def",
		"wrong key":     foreign,
		"wrong alg":     wrongAlg,
		"alg none":      unsigned,
		"bad signature": tampered,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, ts.Validate(token, true))
				assert.False(t, ts.Validate(token, false))
				_, ok := ts.ExtractUserID(token)
				assert.False(t, ok)
			})
		})
	}
}

func TestTokenService_ExtractUserIDBadSubject(t *testing.T) {
	ts := foodbook.NewTokenService(signingKey, 1)

	for name, subject := range map[string]string{
		"not a uuid": "alice",
		"nil uuid":   uuid.Nil.String(),
		"empty":      "",
	} {
		t.Run(name, func(t *testing.T) {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   subject,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			})
			signed, err := token.SignedString(signingKey)
			require.NoError(t, err)

			assert.True(t, ts.Validate(signed, true))
			_, ok := ts.ExtractUserID(signed)
			assert.False(t, ok)
		})
	}
}

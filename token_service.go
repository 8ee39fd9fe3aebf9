package foodbook

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenValidity is used when the configured expiration is not positive
const DefaultTokenValidity = 24 * time.Hour

// TokenServiceImpl signs and checks HS256 bearer tokens
type TokenServiceImpl struct {
	signingKey []byte
	validity   time.Duration
	now        func() time.Time
	logger     Logger
}

// TokenServiceOption configures a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithClock overrides the time source, used by tests
func WithClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new token service. tokenExpiration is in hours.
func NewTokenService(signingKey []byte, tokenExpiration int, opts ...TokenServiceOption) *TokenServiceImpl {
	validity := DefaultTokenValidity
	if tokenExpiration > 0 {
		validity = time.Duration(tokenExpiration) * time.Hour
	}

	ts := &TokenServiceImpl{
		signingKey: signingKey,
		validity:   validity,
		now:        time.Now,
		logger:     defaultLogger(),
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

// NewTokenServiceFromConfig builds the codec from the signing key and
// expiration carried by cfg.
func NewTokenServiceFromConfig(cfg Config, opts ...TokenServiceOption) *TokenServiceImpl {
	return NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenExpiration(), opts...)
}

// Validity returns how long issued tokens live
func (ts *TokenServiceImpl) Validity() time.Duration {
	return ts.validity
}

// Generate creates a token for the given user
func (ts *TokenServiceImpl) Generate(userID uuid.UUID) (string, error) {
	now := ts.now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate reports whether the token is well formed and carries a valid
// signature. With enforceExpiry the token must also have an expiry that
// has not passed yet.
func (ts *TokenServiceImpl) Validate(tokenString string, enforceExpiry bool) bool {
	if tokenString == "" {
		return false
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}

	if enforceExpiry {
		options = append(options, jwt.WithExpirationRequired())
	} else {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	_, err := ts.parse(tokenString, options...)
	if err != nil {
		ts.logger.Debug("token validation failed", "error", err)
		return false
	}

	return true
}

// ExtractUserID returns the subject as a user id. The signature is
// verified, time claims are not.
func (ts *TokenServiceImpl) ExtractUserID(tokenString string) (uuid.UUID, bool) {
	claims, err := ts.parse(tokenString,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}

	return id, true
}

// ExpiresAt returns the expiry of a signed token
func (ts *TokenServiceImpl) ExpiresAt(tokenString string) (time.Time, bool) {
	claims, err := ts.parse(tokenString,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (ts *TokenServiceImpl) parse(tokenString string, options ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return ts.signingKey, nil
	}, options...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}

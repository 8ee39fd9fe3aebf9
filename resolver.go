package foodbook

import (
	"context"
	"errors"
	"strings"
)

// Credentials are the raw inputs gathered from a request
type Credentials struct {
	// SessionEmail is the principal kept by the upstream session, if any
	SessionEmail string
	// SessionToken is the login token the session was established with
	SessionToken string
	// Token is the bearer token from the header or the cookie
	Token string
}

// Resolution is a successful identification
type Resolution struct {
	Principal Principal
	User      *User
}

// Strategy turns credentials into a resolution. It returns
// ErrNotApplicable when the credentials it handles are absent.
type Strategy interface {
	Resolve(ctx context.Context, creds Credentials) (*Resolution, error)
}

// StrategyFunc adapts a function into a Strategy.
type StrategyFunc func(ctx context.Context, creds Credentials) (*Resolution, error)

// Resolve satisfies the Strategy interface.
func (f StrategyFunc) Resolve(ctx context.Context, creds Credentials) (*Resolution, error) {
	return f(ctx, creds)
}

// SessionStrategy resolves the principal stored by form login. The
// session stays valid only while the login token it carries is stored,
// so logout and password change end it everywhere.
type SessionStrategy struct {
	users  UserStore
	tokens CredentialStore
}

func NewSessionStrategy(users UserStore, tokens CredentialStore) *SessionStrategy {
	return &SessionStrategy{users: users, tokens: tokens}
}

func (s *SessionStrategy) Resolve(ctx context.Context, creds Credentials) (*Resolution, error) {
	email := strings.TrimSpace(creds.SessionEmail)
	if email == "" {
		return nil, ErrNotApplicable
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to load session user")
	}

	token := strings.TrimSpace(creds.SessionToken)
	if token == "" {
		return nil, ErrSessionNotFound
	}

	if _, err := s.tokens.FindSessionToken(ctx, user.ID, token); err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, internalError(err, "failed to load session token")
	}

	return &Resolution{
		Principal: SessionPrincipal(email),
		User:      user,
	}, nil
}

// TokenStrategy resolves a bearer token against the codec and the
// stored session tokens.
type TokenStrategy struct {
	codec  TokenCodec
	tokens CredentialStore
	users  UserStore
}

func NewTokenStrategy(codec TokenCodec, tokens CredentialStore, users UserStore) *TokenStrategy {
	return &TokenStrategy{
		codec:  codec,
		tokens: tokens,
		users:  users,
	}
}

func (s *TokenStrategy) Resolve(ctx context.Context, creds Credentials) (*Resolution, error) {
	token := strings.TrimSpace(creds.Token)
	if token == "" {
		return nil, ErrNoCredential
	}

	if !s.codec.Validate(token, true) {
		return nil, ErrInvalidCredential
	}

	userID, ok := s.codec.ExtractUserID(token)
	if !ok {
		return nil, ErrMalformedCredential
	}

	stored, err := s.tokens.FindSessionToken(ctx, userID, token)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, internalError(err, "failed to load session token")
	}

	user, err := s.users.FindUserByID(ctx, stored.UserID)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, internalError(err, "failed to load token user")
	}

	return &Resolution{
		Principal: TokenPrincipal(userID, token),
		User:      user,
	}, nil
}

// Resolver tries strategies in order until one succeeds.
// Auth failures are remembered and the next strategy is tried. Any
// other error stops the chain.
type Resolver struct {
	strategies []Strategy
}

// NewResolver filters nil strategies and returns a composite resolver.
func NewResolver(strategies ...Strategy) *Resolver {
	filtered := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &Resolver{strategies: filtered}
}

// NewDefaultResolver checks the session principal first, then the token
func NewDefaultResolver(codec TokenCodec, tokens CredentialStore, users UserStore) *Resolver {
	return NewResolver(
		NewSessionStrategy(users, tokens),
		NewTokenStrategy(codec, tokens, users),
	)
}

// Resolve satisfies the Strategy interface.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*Resolution, error) {
	var firstFailure error
	for _, s := range r.strategies {
		res, err := s.Resolve(ctx, creds)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		if IsAuthFailure(err) {
			if firstFailure == nil {
				firstFailure = err
			}
			continue
		}
		return nil, err
	}

	if firstFailure != nil {
		return nil, firstFailure
	}
	return nil, ErrNoCredential
}

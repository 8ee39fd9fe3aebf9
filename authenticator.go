package foodbook

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Auther runs the account operations that create and revoke session tokens
type Auther struct {
	repo     RepositoryManager
	codec    TokenCodec
	hasher   *PasswordHasher
	logger   Logger
	activity ActivitySink
	now      func() time.Time
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(repo RepositoryManager, codec TokenCodec) *Auther {
	return &Auther{
		repo:     repo,
		codec:    codec,
		hasher:   NewPasswordHasher(0),
		logger:   defaultLogger(),
		activity: noopActivitySink{},
		now:      time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithPasswordHasher overrides the default hasher
func (s *Auther) WithPasswordHasher(hasher *PasswordHasher) *Auther {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithActivitySink receives an event for every account operation
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activity = normalizeActivitySink(sink)
	return s
}

func (s *Auther) record(ctx context.Context, eventType ActivityEventType, userID uuid.UUID, meta map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Metadata:   meta,
		OccurredAt: s.now(),
	}
	if userID != uuid.Nil {
		event.UserID = userID.String()
	}
	if err := s.activity.Record(ctx, event); err != nil {
		s.logger.Warn("Record activity error", "event", string(eventType), "error", err)
	}
}

// Register creates a user. The email must not be taken.
func (s *Auther) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user *User
	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().FindUserByEmailTx(ctx, tx, email); err == nil {
			return ErrEmailAlreadyExists
		} else if !IsRecordNotFound(err) {
			return err
		}

		user, err = s.repo.Users().CreateTx(ctx, tx, &User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrEmailAlreadyExists) {
			s.logger.Error("Register user error", "error", err)
		}
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID.String())
	s.record(ctx, ActivityEventRegistered, user.ID, nil)
	return user, nil
}

// Login verifies the password and issues a token. Any token the user
// held before is revoked in the same transaction.
func (s *Auther) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.Users().FindUserByEmail(ctx, email)
	if err != nil {
		if IsRecordNotFound(err) {
			s.record(ctx, ActivityEventLoginFailure, uuid.Nil, map[string]any{"reason": "unknown_email"})
			return "", nil, ErrInvalidLogin
		}
		s.logger.Error("Login find user error", "error", err)
		return "", nil, err
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			s.record(ctx, ActivityEventLoginFailure, user.ID, map[string]any{"reason": "password_mismatch"})
			return "", nil, ErrInvalidLogin
		}
		s.logger.Error("Login verify password error", "error", err)
		return "", nil, err
	}

	token, err := s.codec.Generate(user.ID)
	if err != nil {
		s.logger.Error("Login generate token error", "error", err)
		return "", nil, err
	}

	expiresAt, ok := s.codec.ExpiresAt(token)
	if !ok {
		expiresAt = s.now().Add(DefaultTokenValidity)
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.AuthTokens().DeleteSessionTx(ctx, tx, user.ID); err != nil {
			return err
		}
		_, err := s.repo.AuthTokens().CreateSessionTx(ctx, tx, user.ID, token, expiresAt)
		return err
	})
	if err != nil {
		s.logger.Error("Login store session error", "error", err)
		return "", nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID.String())
	s.record(ctx, ActivityEventLoginSuccess, user.ID, nil)
	return token, user, nil
}

// Logout revokes the user's stored token
func (s *Auther) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.AuthTokens().DeleteSession(ctx, userID); err != nil {
		s.logger.Error("Logout error", "error", err)
		return err
	}
	s.logger.Info("User logged out", "user_id", userID.String())
	s.record(ctx, ActivityEventLogout, userID, nil)
	return nil
}

// ChangePassword checks the current password, stores the new one and
// revokes the user's token.
func (s *Auther) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.Users().FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.hasher.ComparePasswordAndHash(current, user.PasswordHash); err != nil {
		return err
	}

	hash, err := s.hasher.HashPassword(next)
	if err != nil {
		return err
	}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.repo.Users().ResetPasswordTx(ctx, tx, userID, hash); err != nil {
			return err
		}
		return s.repo.AuthTokens().DeleteSessionTx(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	s.record(ctx, ActivityEventPasswordChanged, userID, nil)
	return nil
}

// UpdateProfile changes name and email. The email must stay unique.
func (s *Auther) UpdateProfile(ctx context.Context, userID uuid.UUID, name, email string) (*User, error) {
	var user *User
	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := s.repo.Users().FindUserByEmailTx(ctx, tx, email)
		if err == nil && existing.ID != userID {
			return ErrEmailAlreadyExists
		}
		if err != nil && !IsRecordNotFound(err) {
			return err
		}

		user, err = s.repo.Users().UpdateProfileTx(ctx, tx, userID, name, email)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ActivityEventProfileUpdated, userID, nil)
	return user, nil
}

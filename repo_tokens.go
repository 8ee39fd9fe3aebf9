package foodbook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AuthTokens interface {
	CredentialStore

	FindSessionTokenTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string) (*AuthToken, error)
	CreateSessionTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string, expiresAt time.Time) (*AuthToken, error)
	DeleteSessionTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

type authTokens struct {
	db  *bun.DB
	now func() time.Time
}

var _ AuthTokens = (*authTokens)(nil)

func NewAuthTokensRepository(db *bun.DB) AuthTokens {
	return &authTokens{db: db, now: time.Now}
}

func (r *authTokens) FindSessionToken(ctx context.Context, userID uuid.UUID, token string) (*AuthToken, error) {
	return r.FindSessionTokenTx(ctx, r.db, userID, token)
}

// FindSessionTokenTx treats rows past their expiry as absent
func (r *authTokens) FindSessionTokenTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string) (*AuthToken, error) {
	record := &AuthToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.token = ?", token).
		Where("?TableAlias.expires_at > ?", r.now().UTC()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, map[string]any{"user_id": userID.String()})
	}
	return record, nil
}

func (r *authTokens) CreateSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*AuthToken, error) {
	return r.CreateSessionTx(ctx, r.db, userID, token, expiresAt)
}

func (r *authTokens) CreateSessionTx(ctx context.Context, tx bun.IDB, userID uuid.UUID, token string, expiresAt time.Time) (*AuthToken, error) {
	now := r.now().UTC()
	record := &AuthToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: &now,
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to store session token")
	}
	return record, nil
}

func (r *authTokens) DeleteSession(ctx context.Context, userID uuid.UUID) error {
	return r.DeleteSessionTx(ctx, r.db, userID)
}

func (r *authTokens) DeleteSessionTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*AuthToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete session tokens")
	}
	return nil
}

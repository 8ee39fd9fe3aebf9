package foodbook

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	UserStore

	FindUserByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	FindUserByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, name, email string) (*User, error)
	ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.FindUserByIDTx(ctx, a.db, id)
}

func (a *users) FindUserByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, map[string]any{"id": id.String()})
	}
	return record, nil
}

func (a *users) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindUserByEmailTx(ctx, a.db, email)
}

func (a *users) FindUserByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("LOWER(?TableAlias.email) = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, map[string]any{"email": email})
	}
	return record, nil
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create user")
	}
	return record, nil
}

func (a *users) UpdateProfileTx(ctx context.Context, tx bun.IDB, id uuid.UUID, name, email string) (*User, error) {
	now := time.Now().UTC()
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("name = ?", strings.TrimSpace(name)).
		Set("email = ?", normalizeEmail(email)).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, internalError(err, "failed to update user")
	}

	if err := expectRows(res, map[string]any{"id": id.String()}); err != nil {
		return nil, err
	}

	return a.FindUserByIDTx(ctx, tx, id)
}

func (a *users) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to update password")
	}

	return expectRows(res, map[string]any{"id": id.String()})
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	record.Email = normalizeEmail(record.Email)
	record.Name = strings.TrimSpace(record.Name)

	now := time.Now().UTC()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFoundOr(err error, meta map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewRecordNotFound(meta)
	}
	return internalError(err, "query failed")
}

func expectRows(res sql.Result, meta map[string]any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return internalError(err, "failed to read affected rows")
	}
	if n == 0 {
		return NewRecordNotFound(meta)
	}
	return nil
}

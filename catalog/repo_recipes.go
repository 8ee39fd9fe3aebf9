package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Recipes interface {
	Create(ctx context.Context, record *Recipe) (*Recipe, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Recipe, error)
	List(ctx context.Context, userID uuid.UUID, search string) ([]*Recipe, error)
	Update(ctx context.Context, record *Recipe) (*Recipe, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetCover(ctx context.Context, userID, id uuid.UUID, cover *string) error
	FindByCover(ctx context.Context, userID uuid.UUID, cover string) (*Recipe, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*RecipeStatistics, error)
}

type recipes struct {
	db bun.IDB
}

var _ Recipes = (*recipes)(nil)

func NewRecipesRepository(db bun.IDB) Recipes {
	return &recipes{db: db}
}

func (r *recipes) Create(ctx context.Context, record *Recipe) (*Recipe, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create recipe")
	}
	return record, nil
}

func (r *recipes) Get(ctx context.Context, userID, id uuid.UUID) (*Recipe, error) {
	record := &Recipe{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, internalError(err, "failed to load recipe")
	}
	return record, nil
}

func (r *recipes) List(ctx context.Context, userID uuid.UUID, search string) ([]*Recipe, error) {
	records := make([]*Recipe, 0)
	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID)

	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(?TableAlias.title) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.description) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.ingredients) LIKE ?", pattern)
		})
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, internalError(err, "failed to list recipes")
	}
	return records, nil
}

func (r *recipes) Update(ctx context.Context, record *Recipe) (*Recipe, error) {
	now := time.Now().UTC()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("title", "description", "ingredients", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.user_id = ?", record.UserID).
		Exec(ctx)
	if err != nil {
		return nil, internalError(err, "failed to update recipe")
	}
	if err := expectRows(res, ErrRecipeNotFound); err != nil {
		return nil, err
	}
	return r.Get(ctx, record.UserID, record.ID)
}

func (r *recipes) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Recipe)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete recipe")
	}
	return expectRows(res, ErrRecipeNotFound)
}

func (r *recipes) SetCover(ctx context.Context, userID, id uuid.UUID, cover *string) error {
	res, err := r.db.NewUpdate().
		Model((*Recipe)(nil)).
		Set("cover = ?", cover).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to update recipe cover")
	}
	return expectRows(res, ErrRecipeNotFound)
}

func (r *recipes) FindByCover(ctx context.Context, userID uuid.UUID, cover string) (*Recipe, error) {
	record := &Recipe{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.cover = ?", cover).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCoverNotFound
		}
		return nil, internalError(err, "failed to load recipe cover")
	}
	return record, nil
}

// Statistics counts characters in Go so multi byte descriptions are
// measured the same way on every database.
func (r *recipes) Statistics(ctx context.Context, userID uuid.UUID) (*RecipeStatistics, error) {
	var descriptions []string
	err := r.db.NewSelect().
		Model((*Recipe)(nil)).
		Column("description").
		Where("user_id = ?", userID).
		Scan(ctx, &descriptions)
	if err != nil {
		return nil, internalError(err, "failed to load recipe statistics")
	}

	stats := &RecipeStatistics{
		TotalRecipes: len(descriptions),
		Label:        "Recipe statistics",
	}
	for _, d := range descriptions {
		if utf8.RuneCountInString(d) < ShortRecipeLimit {
			stats.ShortRecipes++
		}
	}
	stats.LongRecipes = stats.TotalRecipes - stats.ShortRecipes

	return stats, nil
}

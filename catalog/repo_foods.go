package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FoodFilter narrows a food listing. Empty fields are ignored.
type FoodFilter struct {
	Search   string
	Category string
}

type Foods interface {
	Create(ctx context.Context, record *Food) (*Food, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*Food, error)
	List(ctx context.Context, userID uuid.UUID, filter FoodFilter) ([]*Food, error)
	Update(ctx context.Context, record *Food) (*Food, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetCover(ctx context.Context, userID, id uuid.UUID, cover *string) error
	FindByCover(ctx context.Context, userID uuid.UUID, cover string) (*Food, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*FoodStatistics, error)
}

type foods struct {
	db bun.IDB
}

var _ Foods = (*foods)(nil)

func NewFoodsRepository(db bun.IDB) Foods {
	return &foods{db: db}
}

func (r *foods) Create(ctx context.Context, record *Food) (*Food, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, internalError(err, "failed to create food")
	}
	return record, nil
}

func (r *foods) Get(ctx context.Context, userID, id uuid.UUID) (*Food, error) {
	record := &Food{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFoodNotFound
		}
		return nil, internalError(err, "failed to load food")
	}
	return record, nil
}

func (r *foods) List(ctx context.Context, userID uuid.UUID, filter FoodFilter) ([]*Food, error) {
	records := make([]*Food, 0)
	q := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(?TableAlias.name) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.description) LIKE ?", pattern).
				WhereOr("LOWER(?TableAlias.category) LIKE ?", pattern)
		})
	}

	if category := strings.TrimSpace(filter.Category); category != "" {
		q = q.Where("LOWER(?TableAlias.category) = ?", strings.ToLower(category))
	}

	if err := q.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, internalError(err, "failed to list foods")
	}
	return records, nil
}

func (r *foods) Update(ctx context.Context, record *Food) (*Food, error) {
	now := time.Now().UTC()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("name", "calories", "protein", "carbohydrates", "fat", "fiber",
			"serving_size", "category", "description", "updated_at").
		Where("?TableAlias.id = ?", record.ID).
		Where("?TableAlias.user_id = ?", record.UserID).
		Exec(ctx)
	if err != nil {
		return nil, internalError(err, "failed to update food")
	}
	if err := expectRows(res, ErrFoodNotFound); err != nil {
		return nil, err
	}
	return r.Get(ctx, record.UserID, record.ID)
}

func (r *foods) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Food)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to delete food")
	}
	return expectRows(res, ErrFoodNotFound)
}

func (r *foods) SetCover(ctx context.Context, userID, id uuid.UUID, cover *string) error {
	res, err := r.db.NewUpdate().
		Model((*Food)(nil)).
		Set("cover = ?", cover).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to update food cover")
	}
	return expectRows(res, ErrFoodNotFound)
}

func (r *foods) FindByCover(ctx context.Context, userID uuid.UUID, cover string) (*Food, error) {
	record := &Food{}
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
		return nil, internalError(err, "failed to load food cover")
	}
	return record, nil
}

type categoryTotal struct {
	Category string  `bun:"category"`
	Total    float64 `bun:"total"`
}

type categoryCount struct {
	Category string `bun:"category"`
	Total    int64  `bun:"total"`
}

type nutritionRow struct {
	Foods         int64           `bun:"foods"`
	Protein       sql.NullFloat64 `bun:"protein"`
	Carbohydrates sql.NullFloat64 `bun:"carbohydrates"`
	Fat           sql.NullFloat64 `bun:"fat"`
	Fiber         sql.NullFloat64 `bun:"fiber"`
}

func (r *foods) Statistics(ctx context.Context, userID uuid.UUID) (*FoodStatistics, error) {
	stats := &FoodStatistics{
		CaloriesByCategory: map[string]float64{},
		CountByCategory:    map[string]int64{},
	}

	var calories []categoryTotal
	err := r.db.NewSelect().
		Model((*Food)(nil)).
		Column("category").
		ColumnExpr("COALESCE(SUM(calories), 0) AS total").
		Where("user_id = ?", userID).
		Group("category").
		Scan(ctx, &calories)
	if err != nil {
		return nil, internalError(err, "failed to sum calories")
	}
	for _, row := range calories {
		stats.CaloriesByCategory[row.Category] = row.Total
	}

	var counts []categoryCount
	err = r.db.NewSelect().
		Model((*Food)(nil)).
		Column("category").
		ColumnExpr("COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("category").
		Scan(ctx, &counts)
	if err != nil {
		return nil, internalError(err, "failed to count foods")
	}
	for _, row := range counts {
		stats.CountByCategory[row.Category] = row.Total
	}

	var avg nutritionRow
	err = r.db.NewSelect().
		Model((*Food)(nil)).
		ColumnExpr("COUNT(*) AS foods").
		ColumnExpr("AVG(protein) AS protein").
		ColumnExpr("AVG(carbohydrates) AS carbohydrates").
		ColumnExpr("AVG(fat) AS fat").
		ColumnExpr("AVG(fiber) AS fiber").
		Where("user_id = ?", userID).
		Scan(ctx, &avg)
	if err != nil {
		return nil, internalError(err, "failed to average nutrition")
	}
	if avg.Foods > 0 {
		stats.AverageNutrition = &NutritionAverages{
			Protein:       avg.Protein.Float64,
			Carbohydrates: avg.Carbohydrates.Float64,
			Fat:           avg.Fat.Float64,
			Fiber:         avg.Fiber.Float64,
		}
	}

	return stats, nil
}

// likePattern lowercases s and escapes nothing: wildcards typed by the
// user keep their LIKE meaning.
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

func expectRows(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return internalError(err, "failed to read affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// Package catalog stores the foods and recipes of each user and serves
// them over the JSON API.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Food is a food item with nutrition values per serving
type Food struct {
	bun.BaseModel `bun:"table:foods,alias:fd"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"userId"`
	Name          string     `bun:"name,notnull" json:"name"`
	Calories      float64    `bun:"calories,notnull" json:"calories"`
	Protein       float64    `bun:"protein,notnull" json:"protein"`
	Carbohydrates float64    `bun:"carbohydrates,notnull" json:"carbohydrates"`
	Fat           float64    `bun:"fat,notnull" json:"fat"`
	Fiber         float64    `bun:"fiber,notnull" json:"fiber"`
	ServingSize   string     `bun:"serving_size,notnull" json:"servingSize"`
	Category      string     `bun:"category,notnull" json:"category"`
	Description   string     `bun:"description,notnull" json:"description"`
	Cover         *string    `bun:"cover" json:"cover"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Recipe is a free text recipe
type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:rcp"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"userId"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description,notnull" json:"description"`
	Ingredients   string     `bun:"ingredients,notnull" json:"ingredients"`
	Cover         *string    `bun:"cover" json:"cover"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// NutritionAverages are per food averages over a user's foods
type NutritionAverages struct {
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
}

// FoodStatistics feed the nutrition dashboard charts
type FoodStatistics struct {
	CaloriesByCategory map[string]float64 `json:"caloriesByCategory"`
	CountByCategory    map[string]int64   `json:"countByCategory"`
	AverageNutrition   *NutritionAverages `json:"averageNutrition,omitempty"`
}

// ShortRecipeLimit is the description length, in characters, below which
// a recipe counts as short.
const ShortRecipeLimit = 100

// RecipeStatistics feed the recipe dashboard chart
type RecipeStatistics struct {
	TotalRecipes int    `json:"totalRecipes"`
	ShortRecipes int    `json:"shortRecipes"`
	LongRecipes  int    `json:"longRecipes"`
	Label        string `json:"label"`
}

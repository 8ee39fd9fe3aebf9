package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/delcom/foodbook"
)

// FoodRequest is the create and update payload of a food
type FoodRequest struct {
	Name          string   `json:"name"`
	Calories      *float64 `json:"calories"`
	Protein       *float64 `json:"protein"`
	Carbohydrates *float64 `json:"carbohydrates"`
	Fat           *float64 `json:"fat"`
	Fiber         *float64 `json:"fiber"`
	ServingSize   string   `json:"servingSize"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
}

func (r FoodRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Calories, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.Protein, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.Carbohydrates, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.Fat, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.Fiber, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.ServingSize, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

func (r FoodRequest) apply(f *Food) {
	f.Name = r.Name
	f.Calories = *r.Calories
	f.Protein = *r.Protein
	f.Carbohydrates = *r.Carbohydrates
	f.Fat = *r.Fat
	f.Fiber = *r.Fiber
	f.ServingSize = r.ServingSize
	f.Category = r.Category
	f.Description = r.Description
}

type FoodController struct {
	Foods  Foods
	Covers *Covers
	Logger foodbook.Logger
}

func NewFoodController(foods Foods, covers *Covers, logger foodbook.Logger) *FoodController {
	if logger == nil {
		logger = foodbook.DefaultLogger()
	}
	return &FoodController{Foods: foods, Covers: covers, Logger: logger}
}

// RegisterFoodRoutes mounts the food API on router, usually the
// /api/foods group. Fixed paths go before /:id.
func RegisterFoodRoutes(router fiber.Router, fc *FoodController) {
	router.Post("/", fc.Create).Name("foods.create")
	router.Get("/", fc.List).Name("foods.list")
	router.Get("/statistics", fc.Statistics).Name("foods.statistics")
	router.Get("/covers/:filename", fc.Cover).Name("foods.cover")
	router.Get("/:id", fc.Show).Name("foods.show")
	router.Put("/:id", fc.Update).Name("foods.update")
	router.Delete("/:id", fc.Delete).Name("foods.delete")
	router.Post("/:id/cover", fc.UploadCover).Name("foods.cover.upload")
	router.Delete("/:id/cover", fc.DeleteCover).Name("foods.cover.delete")
}

func (fc *FoodController) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(FoodRequest)
	if err := foodbook.BindAndValidate(c, payload); err != nil {
		return err
	}

	food := &Food{UserID: user.ID}
	payload.apply(food)

	food, err = fc.Foods.Create(c.UserContext(), food)
	if err != nil {
		return err
	}

	fc.Logger.Info("food created", "user_id", user.ID.String(), "food_id", food.ID.String())
	return foodbook.Created(c, "food created", fiber.Map{"id": food.ID})
}

func (fc *FoodController) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	foods, err := fc.Foods.List(c.UserContext(), user.ID, FoodFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		return err
	}

	return foodbook.Success(c, "foods loaded", fiber.Map{"foods": foods})
}

func (fc *FoodController) Show(c *fiber.Ctx) error {
	food, err := fc.load(c)
	if err != nil {
		return err
	}
	return foodbook.Success(c, "food loaded", fiber.Map{"food": food})
}

func (fc *FoodController) Update(c *fiber.Ctx) error {
	food, err := fc.load(c)
	if err != nil {
		return err
	}

	payload := new(FoodRequest)
	if err := foodbook.BindAndValidate(c, payload); err != nil {
		return err
	}
	payload.apply(food)

	if _, err := fc.Foods.Update(c.UserContext(), food); err != nil {
		return err
	}

	return foodbook.Success(c, "food updated", nil)
}

func (fc *FoodController) Delete(c *fiber.Ctx) error {
	food, err := fc.load(c)
	if err != nil {
		return err
	}

	if err := fc.Foods.Delete(c.UserContext(), food.UserID, food.ID); err != nil {
		return err
	}

	if food.Cover != nil {
		fc.Covers.Remove(c.UserContext(), *food.Cover)
	}

	return foodbook.Success(c, "food deleted", nil)
}

func (fc *FoodController) Statistics(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := fc.Foods.Statistics(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return foodbook.Success(c, "food statistics loaded", stats)
}

func (fc *FoodController) UploadCover(c *fiber.Ctx) error {
	food, err := fc.load(c)
	if err != nil {
		return err
	}

	up, err := readCover(c)
	if err != nil {
		return err
	}

	name, err := fc.Covers.Replace(c.UserContext(), food.ID, food.Cover, up.data, up.contentType, up.filename, func(name string) error {
		return fc.Foods.SetCover(c.UserContext(), food.UserID, food.ID, &name)
	})
	if err != nil {
		return err
	}

	return foodbook.Success(c, "cover uploaded", fiber.Map{"cover": name})
}

func (fc *FoodController) DeleteCover(c *fiber.Ctx) error {
	food, err := fc.load(c)
	if err != nil {
		return err
	}

	if food.Cover == nil || *food.Cover == "" {
		return ErrNoCover
	}

	if err := fc.Foods.SetCover(c.UserContext(), food.UserID, food.ID, nil); err != nil {
		return err
	}
	fc.Covers.Remove(c.UserContext(), *food.Cover)

	return foodbook.Success(c, "cover deleted", nil)
}

func (fc *FoodController) Cover(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	name := c.Params("filename")
	if _, err := fc.Foods.FindByCover(c.UserContext(), user.ID, name); err != nil {
		return err
	}

	data, contentType, err := fc.Covers.Load(c.UserContext(), name)
	if err != nil {
		return err
	}

	return sendCover(c, name, data, contentType)
}

func (fc *FoodController) load(c *fiber.Ctx) (*Food, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramID(c)
	if err != nil {
		return nil, err
	}

	return fc.Foods.Get(c.UserContext(), user.ID, id)
}

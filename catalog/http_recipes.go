package catalog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"

	"github.com/delcom/foodbook"
)

// RecipeRequest is the create and update payload of a recipe
type RecipeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
}

func (r RecipeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Ingredients, validation.Required),
	)
}

type RecipeController struct {
	Recipes Recipes
	Covers  *Covers
	Logger  foodbook.Logger
}

func NewRecipeController(recipes Recipes, covers *Covers, logger foodbook.Logger) *RecipeController {
	if logger == nil {
		logger = foodbook.DefaultLogger()
	}
	return &RecipeController{Recipes: recipes, Covers: covers, Logger: logger}
}

// RegisterRecipeRoutes mounts the recipe API on router
func RegisterRecipeRoutes(router fiber.Router, rc *RecipeController) {
	router.Post("/", rc.Create).Name("recipes.create")
	router.Get("/", rc.List).Name("recipes.list")
	router.Get("/stats", rc.Statistics).Name("recipes.stats")
	router.Get("/covers/:filename", rc.Cover).Name("recipes.cover")
	router.Get("/:id", rc.Show).Name("recipes.show")
	router.Put("/:id", rc.Update).Name("recipes.update")
	router.Delete("/:id", rc.Delete).Name("recipes.delete")
	router.Post("/:id/cover", rc.UploadCover).Name("recipes.cover.upload")
	router.Delete("/:id/cover", rc.DeleteCover).Name("recipes.cover.delete")
}

func (rc *RecipeController) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	payload := new(RecipeRequest)
	if err := foodbook.BindAndValidate(c, payload); err != nil {
		return err
	}

	recipe, err := rc.Recipes.Create(c.UserContext(), &Recipe{
		UserID:      user.ID,
		Title:       payload.Title,
		Description: payload.Description,
		Ingredients: payload.Ingredients,
	})
	if err != nil {
		return err
	}

	rc.Logger.Info("recipe created", "user_id", user.ID.String(), "recipe_id", recipe.ID.String())
	return foodbook.Created(c, "recipe created", fiber.Map{"id": recipe.ID})
}

func (rc *RecipeController) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	recipes, err := rc.Recipes.List(c.UserContext(), user.ID, c.Query("search"))
	if err != nil {
		return err
	}

	return foodbook.Success(c, "recipes loaded", fiber.Map{"recipes": recipes})
}

func (rc *RecipeController) Show(c *fiber.Ctx) error {
	recipe, err := rc.load(c)
	if err != nil {
		return err
	}
	return foodbook.Success(c, "recipe loaded", fiber.Map{"recipe": recipe})
}

func (rc *RecipeController) Update(c *fiber.Ctx) error {
	recipe, err := rc.load(c)
	if err != nil {
		return err
	}

	payload := new(RecipeRequest)
	if err := foodbook.BindAndValidate(c, payload); err != nil {
		return err
	}

	recipe.Title = payload.Title
	recipe.Description = payload.Description
	recipe.Ingredients = payload.Ingredients

	if _, err := rc.Recipes.Update(c.UserContext(), recipe); err != nil {
		return err
	}

	return foodbook.Success(c, "recipe updated", nil)
}

func (rc *RecipeController) Delete(c *fiber.Ctx) error {
	recipe, err := rc.load(c)
	if err != nil {
		return err
	}

	if err := rc.Recipes.Delete(c.UserContext(), recipe.UserID, recipe.ID); err != nil {
		return err
	}

	if recipe.Cover != nil {
		rc.Covers.Remove(c.UserContext(), *recipe.Cover)
	}

	return foodbook.Success(c, "recipe deleted", nil)
}

func (rc *RecipeController) Statistics(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	stats, err := rc.Recipes.Statistics(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return foodbook.Success(c, "recipe statistics loaded", stats)
}

func (rc *RecipeController) UploadCover(c *fiber.Ctx) error {
	recipe, err := rc.load(c)
	if err != nil {
		return err
	}

	up, err := readCover(c)
	if err != nil {
		return err
	}

	name, err := rc.Covers.Replace(c.UserContext(), recipe.ID, recipe.Cover, up.data, up.contentType, up.filename, func(name string) error {
		return rc.Recipes.SetCover(c.UserContext(), recipe.UserID, recipe.ID, &name)
	})
	if err != nil {
		return err
	}

	return foodbook.Success(c, "cover uploaded", fiber.Map{"cover": name})
}

func (rc *RecipeController) DeleteCover(c *fiber.Ctx) error {
	recipe, err := rc.load(c)
	if err != nil {
		return err
	}

	if recipe.Cover == nil || *recipe.Cover == "" {
		return ErrNoCover
	}

	if err := rc.Recipes.SetCover(c.UserContext(), recipe.UserID, recipe.ID, nil); err != nil {
		return err
	}
	rc.Covers.Remove(c.UserContext(), *recipe.Cover)

	return foodbook.Success(c, "cover deleted", nil)
}

func (rc *RecipeController) Cover(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	name := c.Params("filename")
	if _, err := rc.Recipes.FindByCover(c.UserContext(), user.ID, name); err != nil {
		return err
	}

	data, contentType, err := rc.Covers.Load(c.UserContext(), name)
	if err != nil {
		return err
	}

	return sendCover(c, name, data, contentType)
}

func (rc *RecipeController) load(c *fiber.Ctx) (*Recipe, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramID(c)
	if err != nil {
		return nil, err
	}

	return rc.Recipes.Get(c.UserContext(), user.ID, id)
}

package foodbook

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// MinPasswordLength applies to registration and password change
const MinPasswordLength = 6

type AuthControllerRoutes struct {
	APIRegister string
	APILogin    string
	Me          string
	Password    string
	APILogout   string
	Login       string
	Register    string
	Logout      string
	Home        string
}

type AuthController struct {
	Logger     Logger
	Auther     *Auther
	HTTP       *RouteAuthenticator
	Principals *SessionPrincipals
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithRouteAuthenticator(a *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.HTTP = a
		return c
	}
}

func WithSessionPrincipals(p *SessionPrincipals) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Principals = p
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defaultLogger(),
		Routes: &AuthControllerRoutes{
			APIRegister: "/api/auth/register",
			APILogin:    "/api/auth/login",
			Me:          "/api/users/me",
			Password:    "/api/users/me/password",
			APILogout:   "/api/users/me/logout",
			Login:       DefaultLoginPath,
			Register:    "/auth/register",
			Logout:      "/logout",
			Home:        DefaultHomePath,
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.HTTP == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	c.Routes.Login = c.HTTP.LoginPath()
	c.Routes.Home = c.HTTP.HomePath()

	return c
}

// RegisterAuthRoutes mounts the auth API and the page login flow
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.APIRegister, controller.RegisterAPI).Name("api.register")
	app.Post(controller.Routes.APILogin, controller.LoginAPI).Name("api.login")
	app.Get(controller.Routes.Me, controller.Profile).Name("api.me.get")
	app.Put(controller.Routes.Me, controller.UpdateProfile).Name("api.me.put")
	app.Put(controller.Routes.Password, controller.ChangePassword).Name("api.me.password")
	app.Post(controller.Routes.APILogout, controller.LogoutAPI).Name("api.me.logout")

	app.Get(controller.Routes.Login, controller.LoginShow).Name("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost).Name("sign-in.post")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).Name("register.post")
	app.Get(controller.Routes.Logout, controller.LogOut).Name("sign-out.get")
	app.Get(controller.Routes.Home, controller.Home).Name("home")
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(controller.Routes.Home, fiber.StatusFound)
	}).Name("root")

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 200), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 100)),
	)
}

// ProfileRequest is the profile update payload
type ProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r ProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 200), is.Email),
	)
}

// PasswordRequest is the password change payload
type PasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

func (r PasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, 100)),
	)
}

func (a *AuthController) RegisterAPI(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := BindAndValidate(c, payload); err != nil {
		return err
	}

	user, err := a.Auther.Register(c.UserContext(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return Created(c, "registration successful", fiber.Map{"id": user.ID})
}

func (a *AuthController) LoginAPI(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := BindAndValidate(c, payload); err != nil {
		return err
	}

	token, _, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	a.HTTP.SetCookieToken(c, token)

	return Success(c, "login successful", fiber.Map{"authToken": token})
}

func (a *AuthController) Profile(c *fiber.Ctx) error {
	user, ok := AuthUser(c)
	if !ok {
		return ErrNoCredential
	}
	return Success(c, "profile loaded", fiber.Map{"user": user})
}

func (a *AuthController) UpdateProfile(c *fiber.Ctx) error {
	user, ok := AuthUser(c)
	if !ok {
		return ErrNoCredential
	}

	payload := new(ProfileRequest)
	if err := BindAndValidate(c, payload); err != nil {
		return err
	}

	updated, err := a.Auther.UpdateProfile(c.UserContext(), user.ID, payload.Name, payload.Email)
	if err != nil {
		return err
	}

	return Success(c, "profile updated", fiber.Map{"user": updated})
}

func (a *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, ok := AuthUser(c)
	if !ok {
		return ErrNoCredential
	}

	payload := new(PasswordRequest)
	if err := BindAndValidate(c, payload); err != nil {
		return err
	}

	if err := a.Auther.ChangePassword(c.UserContext(), user.ID, payload.Password, payload.NewPassword); err != nil {
		return err
	}

	a.clearSession(c)
	a.HTTP.ClearCookieToken(c)

	return Success(c, "password changed, please log in again", nil)
}

func (a *AuthController) LogoutAPI(c *fiber.Ctx) error {
	user, ok := AuthUser(c)
	if !ok {
		return ErrNoCredential
	}

	if err := a.Auther.Logout(c.UserContext(), user.ID); err != nil {
		return err
	}

	a.clearSession(c)
	a.HTTP.ClearCookieToken(c)

	return Success(c, "logout successful", nil)
}

// LoginShow is a placeholder for the login page, page rendering is not
// part of this service.
func (a *AuthController) LoginShow(c *fiber.Ctx) error {
	msg := "login required"
	if code := c.Query("error"); code != "" {
		msg += ": " + code
	}
	return c.Status(fiber.StatusOK).SendString(msg)
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.redirectLogin(c, TextCodeInvalidLogin)
	}

	if err := payload.Validate(); err != nil {
		return a.redirectLogin(c, TextCodeInvalidLogin)
	}

	token, user, err := a.Auther.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidLogin) {
			return a.redirectLogin(c, TextCodeInvalidLogin)
		}
		return err
	}

	if a.Principals != nil {
		if err := a.Principals.Establish(c, user.Email, token); err != nil {
			return err
		}
	}

	a.HTTP.SetCookieToken(c, token)

	return c.Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

func (a *AuthController) RegistrationCreate(c *fiber.Ctx) error {
	payload := new(RegisterRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.redirectLogin(c, "INVALID_REGISTRATION")
	}

	if err := payload.Validate(); err != nil {
		return a.redirectLogin(c, "INVALID_REGISTRATION")
	}

	if _, err := a.Auther.Register(c.UserContext(), payload.Name, payload.Email, payload.Password); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return a.redirectLogin(c, TextCodeEmailExists)
		}
		return err
	}

	return c.Redirect(a.Routes.Login+"?registered=1", fiber.StatusSeeOther)
}

func (a *AuthController) LogOut(c *fiber.Ctx) error {
	if user, ok := AuthUser(c); ok {
		if err := a.Auther.Logout(c.UserContext(), user.ID); err != nil {
			a.Logger.Warn("Logout failed to revoke token", "error", err)
		}
	}

	a.clearSession(c)
	a.HTTP.ClearCookieToken(c)

	return c.Redirect(a.Routes.Login+"?logout=1", fiber.StatusFound)
}

func (a *AuthController) clearSession(c *fiber.Ctx) {
	if a.Principals == nil {
		return
	}
	if err := a.Principals.Clear(c); err != nil {
		a.Logger.Warn("Failed to clear session", "error", err)
	}
}

func (a *AuthController) Home(c *fiber.Ctx) error {
	user, ok := AuthUser(c)
	if !ok {
		return a.redirectLogin(c, TextCodeNoCredential)
	}
	return c.SendString("Welcome, " + user.Name)
}

func (a *AuthController) redirectLogin(c *fiber.Ctx, code string) error {
	return c.Redirect(a.Routes.Login+"?error="+url.QueryEscape(code), fiber.StatusSeeOther)
}

type Validatable interface {
	Validate() error
}

// BindAndValidate parses the body into payload and runs its rules
func BindAndValidate(c *fiber.Ctx, payload Validatable) error {
	if err := c.BodyParser(payload); err != nil {
		return goerrors.New("invalid request body", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}
	return ValidationError(payload.Validate())
}

// ValidationError converts ozzo validation errors to a rich error with
// the field messages as metadata.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}

	meta := map[string]any{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			meta[field] = ferr.Error()
		}
	}

	return goerrors.New("validation failed", goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(meta)
}

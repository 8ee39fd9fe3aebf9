package foodbook

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/delcom/foodbook/middleware/jwtware"
)

type RouteAuthenticator struct {
	cfg              Config
	resolver         Strategy
	classifier       *RequestClassifier
	principals       PrincipalSource
	extractors       []jwtware.JWTExtractor
	cookieDuration   time.Duration
	Logger           Logger
	AuthErrorHandler func(c *fiber.Ctx, err error) error
	ErrorHandler     func(c *fiber.Ctx, err error) error
}

// RouteAuthenticatorOption configures a RouteAuthenticator
type RouteAuthenticatorOption func(*RouteAuthenticator)

// WithPrincipalSource enables the session strategy input
func WithPrincipalSource(src PrincipalSource) RouteAuthenticatorOption {
	return func(a *RouteAuthenticator) {
		a.principals = src
	}
}

// WithRouteLogger sets the logger
func WithRouteLogger(logger Logger) RouteAuthenticatorOption {
	return func(a *RouteAuthenticator) {
		if logger != nil {
			a.Logger = logger
		}
	}
}

func NewHTTPAuthenticator(resolver Strategy, cfg Config, opts ...RouteAuthenticatorOption) *RouteAuthenticator {
	cookieDuration := DefaultTokenValidity
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	a := &RouteAuthenticator{
		cfg:            cfg,
		resolver:       resolver,
		classifier:     NewRequestClassifier(cfg.GetAPIPrefix(), publicPrefixes(cfg)...),
		extractors:     jwtware.GetExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme()),
		cookieDuration: cookieDuration,
		Logger:         defaultLogger(),
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Classifier returns the path classifier used by the middleware
func (a *RouteAuthenticator) Classifier() *RequestClassifier {
	return a.classifier
}

// Middleware resolves the caller of every non public request and stores
// it in the request AuthContext.
func (a *RouteAuthenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac := installAuthContext(c)

		if a.classifier.IsPublic(c.Path()) {
			return c.Next()
		}

		res, err := a.resolver.Resolve(c.UserContext(), a.Credentials(c))
		if err != nil {
			if IsAuthFailure(err) {
				return a.AuthErrorHandler(c, err)
			}
			return a.ErrorHandler(c, err)
		}

		if err := ac.set(res.User, res.Principal); err != nil {
			return a.ErrorHandler(c, err)
		}

		if key := a.cfg.GetContextKey(); key != "" {
			c.Locals(key, res.User)
		}
		c.SetUserContext(WithContext(c.UserContext(), res.User))

		return c.Next()
	}
}

// Credentials collects the session principal and the raw bearer token
func (a *RouteAuthenticator) Credentials(c *fiber.Ctx) Credentials {
	creds := Credentials{}

	if a.principals != nil {
		if email, token, ok := a.principals.PrincipalEmail(c); ok {
			creds.SessionEmail = email
			creds.SessionToken = token
		}
	}

	if token, err := jwtware.ExtractRawToken(c, a.extractors); err == nil {
		creds.Token = token
	}

	return creds
}

// SetCookieToken stores the token in the auth cookie
func (a *RouteAuthenticator) SetCookieToken(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.cookieDuration),
		HTTPOnly: true,
		Secure:   a.cfg.GetSecureCookies(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookieToken expires the auth cookie
func (a *RouteAuthenticator) ClearCookieToken(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.cfg.GetSecureCookies(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// cookieName is the cookie the token lookup reads, so that a token set
// at login is found on the next request.
func (a *RouteAuthenticator) cookieName() string {
	return jwtware.CookieName(a.cfg.GetTokenLookup())
}

// LoginPath is where page requests without a caller are sent
func (a *RouteAuthenticator) LoginPath() string {
	if p := a.cfg.GetLoginPath(); p != "" {
		return p
	}
	return DefaultLoginPath
}

// HomePath is the landing page after a page login
func (a *RouteAuthenticator) HomePath() string {
	if p := a.cfg.GetHomePath(); p != "" {
		return p
	}
	return DefaultHomePath
}

// publicPrefixes always includes the login page, otherwise the redirect
// to it would loop.
func publicPrefixes(cfg Config) []string {
	prefixes := cfg.GetPublicPrefixes()
	if len(prefixes) == 0 {
		prefixes = DefaultPublicPrefixes
	}

	login := cfg.GetLoginPath()
	if login == "" {
		login = DefaultLoginPath
	}

	out := make([]string, 0, len(prefixes)+1)
	out = append(out, prefixes...)
	return append(out, login)
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = ErrNoCredential
	}

	a.Logger.Info(
		"Authentication error",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.Path(),
	)

	if a.classifier.IsAPI(c.Path()) {
		return Fail(c, fiber.StatusUnauthorized, richErr.Message)
	}

	statusCode := fiber.StatusSeeOther
	if c.Method() == fiber.MethodGet {
		statusCode = fiber.StatusFound
	}

	return c.Redirect(a.LoginPath()+"?error="+url.QueryEscape(richErr.TextCode), statusCode)
}

func (a *RouteAuthenticator) defaultErrHandler(c *fiber.Ctx, err error) error {
	a.Logger.Error(
		"Authentication resolution failed",
		"error", err,
		"path", c.Path(),
	)

	if a.classifier.IsAPI(c.Path()) {
		return ErrorEnvelope(c, fiber.StatusInternalServerError, "internal server error")
	}

	return c.Status(fiber.StatusInternalServerError).SendString("internal server error")
}

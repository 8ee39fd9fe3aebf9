// Package server wires the repositories, the auth middleware and the
// controllers into a fiber application.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/uptrace/bun"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/catalog"
	"github.com/delcom/foodbook/config"
	"github.com/delcom/foodbook/storage"
)

// SessionCookie names the cookie of the form login session
const SessionCookie = "foodbook_session"

type Server struct {
	cfg    *config.Config
	db     *bun.DB
	app    *fiber.App
	logger *slog.Logger
}

// Option tweaks a Server before routes are mounted
type Option func(*options)

type options struct {
	accessLog io.Writer
}

// WithAccessLog sends the HTTP access log to w, nil disables it
func WithAccessLog(w io.Writer) Option {
	return func(o *options) {
		o.accessLog = w
	}
}

// New builds the application. db must be migrated.
func New(cfg *config.Config, db *bun.DB, store storage.Store, logger *slog.Logger, opts ...Option) *Server {
	o := &options{accessLog: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:               "foodbook",
		ErrorHandler:          foodbook.WriteError,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if o.accessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: o.accessLog}))
	}

	repo := foodbook.NewRepositoryManager(db)
	repo.MustValidate()

	codec := foodbook.NewTokenServiceFromConfig(cfg.Auth, foodbook.WithTokenLogger(logger))

	sessions := session.New(session.Config{
		Expiration:     codec.Validity(),
		KeyLookup:      "cookie:" + SessionCookie,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Auth.SecureCookies,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
	principals := foodbook.NewSessionPrincipals(sessions, logger)

	resolver := foodbook.NewDefaultResolver(codec, repo.AuthTokens(), repo.Users())
	routeAuth := foodbook.NewHTTPAuthenticator(resolver, cfg.Auth,
		foodbook.WithPrincipalSource(principals),
		foodbook.WithRouteLogger(logger),
	)

	auther := foodbook.NewAuthenticator(repo, codec).
		WithLogger(logger).
		WithPasswordHasher(foodbook.NewPasswordHasher(cfg.Auth.PasswordCost)).
		WithActivitySink(foodbook.LogActivitySink(logger))

	s := &Server{
		cfg:    cfg,
		db:     db,
		app:    app,
		logger: logger,
	}

	app.Use(routeAuth.Middleware())

	app.Get("/health", s.health).Name("health")

	foodbook.RegisterAuthRoutes(app,
		foodbook.WithAuther(auther),
		foodbook.WithRouteAuthenticator(routeAuth),
		foodbook.WithSessionPrincipals(principals),
		foodbook.WithControllerLogger(logger),
	)

	covers := catalog.NewCovers(store, logger)
	catalog.RegisterFoodRoutes(
		app.Group("/api/foods"),
		catalog.NewFoodController(catalog.NewFoodsRepository(db), covers, logger),
	)
	catalog.RegisterRecipeRoutes(
		app.Group("/api/recipes"),
		catalog.NewRecipeController(catalog.NewRecipesRepository(db), covers, logger),
	)

	return s
}

// App exposes the fiber application, mostly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Server.Addr)
		errCh <- s.app.Listen(s.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) health(c *fiber.Ctx) error {
	if err := s.db.PingContext(c.UserContext()); err != nil {
		s.logger.Error("health check failed", "error", err)
		return foodbook.ErrorEnvelope(c, fiber.StatusServiceUnavailable, "database unavailable")
	}
	return foodbook.Success(c, "ok", fiber.Map{"status": "up"})
}

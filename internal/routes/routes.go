package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	urlHandler *handlers.URLHandler,
	blockHandler *handlers.BlockHandler,
	debugHandler *handlers.DebugHandler,
	healthHandler *handlers.HealthHandler,
	pageHandler *handlers.PageHandler,
) {
	// Pages
	app.Get("/", pageHandler.Index)
	app.Get("/login", pageHandler.Login)
	app.Get("/dashboard", pageHandler.Dashboard)

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth: public endpoints, 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// JWT is applied per route so it never leaks onto the public ones above.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	urls := api.Group("/urls", middleware.JWTProtected(cfg))
	urls.Get("/", urlHandler.List)
	urls.Post("/", urlHandler.Add)
	urls.Delete("/:id", urlHandler.Delete)

	// Focus mode
	api.Post("/block", blockHandler.Block)

	// Development-only diagnostics, 404 otherwise
	api.Get("/cloudflare/debug", middleware.DebugOnly(cfg), debugHandler.Cloudflare)
}

package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/gofiber/fiber/v2"
)

// DebugOnly hides a route unless the server runs in development and the
// request carries the configured x-debug-secret. Every refusal is a bare 404
// so the route is indistinguishable from a missing one.
func DebugOnly(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !DebugAllowed(cfg, c.Get("X-Debug-Secret")) {
			return c.Status(fiber.StatusNotFound).Send(nil)
		}
		return c.Next()
	}
}

// DebugAllowed reports whether a presented secret unlocks debug routes.
func DebugAllowed(cfg *config.Config, presented string) bool {
	if !cfg.IsDevelopment() {
		return false
	}
	want := cfg.Cloudflare.DebugSecret
	got := config.NormalizeEnvValue(presented)
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

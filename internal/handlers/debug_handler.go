package handlers

import (
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	"github.com/gofiber/fiber/v2"
)

// DebugHandler exposes the read-only Cloudflare diagnostics. Routes using it
// must sit behind middleware.DebugOnly.
type DebugHandler struct {
	diagnostics *services.DiagnosticsService
}

func NewDebugHandler(diagnostics *services.DiagnosticsService) *DebugHandler {
	return &DebugHandler{diagnostics: diagnostics}
}

func (h *DebugHandler) Cloudflare(c *fiber.Ctx) error {
	report, status := h.diagnostics.Run(c.UserContext())
	return c.Status(status).JSON(report)
}

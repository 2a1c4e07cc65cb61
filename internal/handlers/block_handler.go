package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// BlockHandler starts focus mode by creating the Gateway block rule.
type BlockHandler struct {
	focusService *services.FocusService
}

func NewBlockHandler(focusService *services.FocusService) *BlockHandler {
	return &BlockHandler{focusService: focusService}
}

func (h *BlockHandler) Block(c *fiber.Ctx) error {
	resp, err := h.focusService.Activate(c.UserContext(), c.Body())
	if err != nil {
		var berr *services.BlockError
		if !errors.As(err, &berr) {
			slog.Error("focus activation failed", "component", "block", "request_id", requestID(c), "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}

		if berr.Kind == services.KindUpstream || berr.Kind == services.KindNetwork {
			slog.Error("focus activation failed", "component", "block", "request_id", requestID(c), "action", berr.Kind, "error", berr.Error())
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(berr)
			}
		}
		return c.Status(berr.Status).JSON(berr.Response())
	}

	return c.JSON(resp)
}

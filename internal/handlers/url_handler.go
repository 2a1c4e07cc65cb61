package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/dto"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/owner"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// URLHandler serves the caller's block list.
type URLHandler struct {
	urlService *services.URLService
}

func NewURLHandler(urlService *services.URLService) *URLHandler {
	return &URLHandler{urlService: urlService}
}

func (h *URLHandler) List(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	urls, err := h.urlService.List(userID)
	if err != nil {
		slog.Error("list urls failed", "component", "urls", "request_id", requestID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to load URLs")
	}
	return c.JSON(dto.URLListResponse{URLs: urls})
}

func (h *URLHandler) Add(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.AddURLRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	added, err := h.urlService.Add(userID, req.URL)
	if err != nil {
		if errors.Is(err, services.ErrEmptyURL) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("add url failed", "component", "urls", "request_id", requestID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to add URL")
	}
	return c.Status(fiber.StatusCreated).JSON(added)
}

func (h *URLHandler) Delete(c *fiber.Ctx) error {
	userID, err := owner.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid URL id")
	}

	if err := h.urlService.Delete(userID, id); err != nil {
		if errors.Is(err, services.ErrURLNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("delete url failed", "component", "urls", "request_id", requestID(c), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete URL")
	}
	return c.JSON(fiber.Map{"message": "URL deleted"})
}

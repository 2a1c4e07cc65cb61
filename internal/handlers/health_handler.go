package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/database"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:               "ok",
		Timestamp:            time.Now().UTC().Format(time.RFC3339),
		DB:                   dbStatus,
		CloudflareConfigured: h.cfg.Cloudflare.Configured(),
	})
}

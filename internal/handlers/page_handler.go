package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	Title        string
	Width        int
	MinPassword  int
	FocusSeconds int64
	FocusLabel   string
}

// PageHandler renders the browser pages. Sessions live in localStorage, so
// every page resolves the session client-side against /api/auth/me.
type PageHandler struct {
	focus time.Duration
}

func NewPageHandler(cfg *config.Config) *PageHandler {
	return &PageHandler{focus: cfg.FocusDuration}
}

func (h *PageHandler) Index(c *fiber.Ctx) error {
	return h.render(c, "index.html", "Focus Block", 420)
}

func (h *PageHandler) Login(c *fiber.Ctx) error {
	return h.render(c, "login.html", "Log in", 420)
}

func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	return h.render(c, "dashboard.html", "Dashboard", 860)
}

func (h *PageHandler) render(c *fiber.Ctx, name, title string, width int) error {
	var buf bytes.Buffer
	err := pageTemplates.ExecuteTemplate(&buf, name, pageData{
		Title:        title,
		Width:        width,
		MinPassword:  services.MinPasswordLength,
		FocusSeconds: int64(h.focus / time.Second),
		FocusLabel:   FocusLabel(h.focus),
	})
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Type("html").Send(buf.Bytes())
}

// FocusLabel renders a duration as "4-hour" or "90-minute".
func FocusLabel(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d-hour", d/time.Hour)
	}
	return fmt.Sprintf("%d-minute", d/time.Minute)
}

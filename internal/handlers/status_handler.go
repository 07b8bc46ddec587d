package handlers

import (
	"log/slog"
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/dto"
	"github.com/dkorkmaz/bptrack-backend/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StatusHandler serves the public check-reading endpoint polled by the
// reminder automation (an Apple Shortcut). It speaks plain CORS and a
// frozen JSON shape; keep it boring.
type StatusHandler struct {
	status *services.DailyStatusService

	// now is the clock; tests pin it.
	now func() time.Time
}

func NewStatusHandler(status *services.DailyStatusService) *StatusHandler {
	return &StatusHandler{status: status, now: time.Now}
}

// CheckReading handles /check-reading for all methods. The automation
// only ever sends GET (plus the browser preflight OPTIONS).
func (h *StatusHandler) CheckReading(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")

	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusOK)
	case fiber.MethodGet:
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": "Method not allowed",
		})
	}

	if h.status == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Server configuration error",
		})
	}

	var scope *uuid.UUID
	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid userId",
			})
		}
		scope = &id
	}

	now := h.now()
	status, err := h.status.Check(c.UserContext(), now, scope)
	if err != nil {
		// Fail closed: a false "no reading yet" makes the automation fire
		// a redundant reminder, a false "already recorded" suppresses a
		// needed one. The fault goes to the diagnostic channel instead.
		slog.Error("daily status check failed", "action", "check_reading", "error", err.Error())
		sentry.CaptureException(err)
		return c.JSON(dto.DailyStatusResponse{
			HasReadingToday: false,
			LastReading:     nil,
			CheckedAt:       now.UTC(),
		})
	}

	return c.JSON(status)
}

package handlers

import (
	"errors"

	"github.com/dkorkmaz/bptrack-backend/internal/auth"
	"github.com/dkorkmaz/bptrack-backend/internal/bp"
	"github.com/dkorkmaz/bptrack-backend/internal/dto"
	"github.com/dkorkmaz/bptrack-backend/internal/models"
	"github.com/dkorkmaz/bptrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReadingHandler struct {
	readings *services.ReadingService
}

func NewReadingHandler(readings *services.ReadingService) *ReadingHandler {
	return &ReadingHandler{readings: readings}
}

// CreateReading handles POST /readings.
func (h *ReadingHandler) CreateReading(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	reading, err := h.readings.Record(c.UserContext(), userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save reading",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(toReadingResponse(reading, ""))
}

// ListReadings handles GET /readings - the shared household history,
// newest first. Optional query params: limit, userId.
func (h *ReadingHandler) ListReadings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	filterUserID, ok, err := parseOptionalUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid userId",
		})
	}
	var filter *uuid.UUID
	if ok {
		filter = &filterUserID
	}

	rows, err := h.readings.List(c.UserContext(), limit, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch readings",
		})
	}

	resp := dto.ReadingsListResponse{
		Readings: make([]dto.ReadingResponse, len(rows)),
		Count:    len(rows),
	}
	for i := range rows {
		resp.Readings[i] = toReadingResponse(&rows[i].Reading, rows[i].UserName)
	}

	return c.JSON(resp)
}

// Trend handles GET /readings/trend?days=7|14|30 - chart data, oldest first.
func (h *ReadingHandler) Trend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	filterUserID, ok, err := parseOptionalUserID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid userId",
		})
	}
	var filter *uuid.UUID
	if ok {
		filter = &filterUserID
	}

	readings, err := h.readings.Trend(c.UserContext(), days, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch trend data",
		})
	}

	resp := dto.ReadingsListResponse{
		Readings: make([]dto.ReadingResponse, len(readings)),
		Count:    len(readings),
	}
	for i := range readings {
		resp.Readings[i] = toReadingResponse(&readings[i], "")
	}

	return c.JSON(resp)
}

// AmendReading handles PATCH /readings/:id.
func (h *ReadingHandler) AmendReading(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reading id",
		})
	}

	var req dto.AmendReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	reading, err := h.readings.Amend(c.UserContext(), readingID, userID, &req)
	if err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(toReadingResponse(reading, ""))
}

// DeleteReading handles DELETE /readings/:id. Removal is permanent.
func (h *ReadingHandler) DeleteReading(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	readingID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid reading id",
		})
	}

	if err := h.readings.Remove(c.UserContext(), readingID, userID); err != nil {
		return h.mutationError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Reading deleted"})
}

func (h *ReadingHandler) mutationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrReadingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Reading not found",
		})
	case errors.Is(err, services.ErrNotOwner):
		// Generic denial on purpose: no detail about whose reading it is.
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Forbidden",
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func parseOptionalUserID(c *fiber.Ctx) (uuid.UUID, bool, error) {
	raw := c.Query("userId")
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

func toReadingResponse(r *models.Reading, userName string) dto.ReadingResponse {
	return dto.ReadingResponse{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		UserName:   userName,
		Systolic:   r.Systolic,
		Diastolic:  r.Diastolic,
		Pulse:      r.Pulse,
		Notes:      r.Notes,
		RecordedAt: r.RecordedAt,
		CreatedAt:  r.CreatedAt,
		Category:   bp.Categorize(r.Systolic, r.Diastolic),
	}
}

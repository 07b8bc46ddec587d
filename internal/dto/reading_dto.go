package dto

import (
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/bp"
)

type CreateReadingRequest struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     *int   `json:"pulse"`
	Notes     string `json:"notes"`
	// RFC 3339; defaults to the submission instant when omitted.
	RecordedAt *time.Time `json:"recorded_at"`
}

// AmendReadingRequest is a partial update: only the fields present are
// applied. user_id and recorded_at are immutable after creation.
type AmendReadingRequest struct {
	Systolic  *int    `json:"systolic"`
	Diastolic *int    `json:"diastolic"`
	Pulse     *int    `json:"pulse"`
	Notes     *string `json:"notes"`
}

type ReadingResponse struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	UserName   string      `json:"user_name,omitempty"`
	Systolic   int         `json:"systolic"`
	Diastolic  int         `json:"diastolic"`
	Pulse      *int        `json:"pulse"`
	Notes      *string     `json:"notes"`
	RecordedAt time.Time   `json:"recorded_at"`
	CreatedAt  time.Time   `json:"created_at"`
	Category   bp.Category `json:"category"`
}

type ReadingsListResponse struct {
	Readings []ReadingResponse `json:"readings"`
	Count    int               `json:"count"`
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/dto"
	"github.com/dkorkmaz/bptrack-backend/internal/models"
	"github.com/google/uuid"
)

// ReadingSource is the narrow query surface the daily-status resolver
// needs from the store.
type ReadingSource interface {
	LatestSince(ctx context.Context, since time.Time, scopeUserID *uuid.UUID) (*models.ReadingWithUser, error)
}

// DailyStatusService answers "has a qualifying reading been recorded
// today?". There is exactly one day-boundary policy in the whole system:
// midnight of the current UTC calendar day. Not server-local time, and
// not a rolling 24h window.
type DailyStatusService struct {
	source ReadingSource
}

func NewDailyStatusService(source ReadingSource) *DailyStatusService {
	return &DailyStatusService{source: source}
}

// Check reports whether a reading exists for now's UTC calendar day.
// scopeUserID narrows the check to one household member; nil means any
// member counts. now is a parameter so tests can pin the clock.
func (s *DailyStatusService) Check(ctx context.Context, now time.Time, scopeUserID *uuid.UUID) (*dto.DailyStatusResponse, error) {
	row, err := s.source.LatestSince(ctx, dayStartUTC(now), scopeUserID)
	if err != nil {
		return nil, fmt.Errorf("daily status check failed: %w", err)
	}

	resp := &dto.DailyStatusResponse{CheckedAt: now.UTC()}
	if row == nil {
		return resp, nil
	}

	name := row.UserName
	if name == "" {
		name = "Unknown"
	}

	resp.HasReadingToday = true
	resp.LastReading = &dto.LastReading{
		RecordedAt: row.RecordedAt,
		UserName:   name,
	}
	return resp, nil
}

// CheckNow is Check against the wall clock.
func (s *DailyStatusService) CheckNow(ctx context.Context, scopeUserID *uuid.UUID) (*dto.DailyStatusResponse, error) {
	return s.Check(ctx, time.Now(), scopeUserID)
}

// dayStartUTC returns midnight of t's UTC calendar day.
func dayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

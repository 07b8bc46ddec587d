package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/config"
	"github.com/dkorkmaz/bptrack-backend/internal/dto"
	"github.com/dkorkmaz/bptrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("invalid reading")
	ErrReadingNotFound = errors.New("reading not found")
	ErrNotOwner        = errors.New("you can only modify your own readings")
)

// Clinical sanity bounds enforced at the input boundary. The store itself
// is schema-only and accepts anything.
const (
	minSystolic  = 50
	maxSystolic  = 250
	minDiastolic = 30
	maxDiastolic = 150
	minPulse     = 30
	maxPulse     = 200
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	minTrendDays     = 7
	maxTrendDays     = 90
)

type ReadingService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewReadingService(db *gorm.DB, cfg *config.Config) *ReadingService {
	return &ReadingService{db: db, timeout: cfg.StoreTimeout}
}

// Record validates and inserts a new reading for the acting user.
// RecordedAt defaults to the submission instant; back-dating is allowed.
func (s *ReadingService) Record(ctx context.Context, userID uuid.UUID, req *dto.CreateReadingRequest) (*models.Reading, error) {
	if err := validateVitals(req.Systolic, req.Diastolic, req.Pulse); err != nil {
		return nil, err
	}

	recordedAt := time.Now().UTC()
	if req.RecordedAt != nil {
		recordedAt = req.RecordedAt.UTC()
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}

	reading := models.Reading{
		ID:         uuid.New(),
		UserID:     userID,
		Systolic:   req.Systolic,
		Diastolic:  req.Diastolic,
		Pulse:      req.Pulse,
		Notes:      notes,
		RecordedAt: recordedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(&reading).Error; err != nil {
		return nil, fmt.Errorf("failed to create reading: %w", err)
	}

	return &reading, nil
}

// Amend applies a partial update to a reading owned by the acting user.
// Only systolic, diastolic, pulse and notes can change; user_id and
// recorded_at are immutable after creation.
func (s *ReadingService) Amend(ctx context.Context, readingID, actingUserID uuid.UUID, req *dto.AmendReadingRequest) (*models.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reading models.Reading
	if err := s.db.WithContext(ctx).First(&reading, "id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("failed to load reading: %w", err)
	}

	if reading.UserID != actingUserID {
		return nil, ErrNotOwner
	}

	if req.Systolic != nil {
		reading.Systolic = *req.Systolic
	}
	if req.Diastolic != nil {
		reading.Diastolic = *req.Diastolic
	}
	if req.Pulse != nil {
		reading.Pulse = req.Pulse
	}
	if req.Notes != nil {
		if *req.Notes == "" {
			reading.Notes = nil
		} else {
			reading.Notes = req.Notes
		}
	}

	if err := validateVitals(reading.Systolic, reading.Diastolic, reading.Pulse); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(&reading).Error; err != nil {
		return nil, fmt.Errorf("failed to update reading: %w", err)
	}

	return &reading, nil
}

// Remove permanently deletes a reading owned by the acting user.
func (s *ReadingService) Remove(ctx context.Context, readingID, actingUserID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reading models.Reading
	if err := s.db.WithContext(ctx).First(&reading, "id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReadingNotFound
		}
		return fmt.Errorf("failed to load reading: %w", err)
	}

	if reading.UserID != actingUserID {
		return ErrNotOwner
	}

	if err := s.db.WithContext(ctx).Delete(&reading).Error; err != nil {
		return fmt.Errorf("failed to delete reading: %w", err)
	}

	return nil
}

// List returns readings newest first, each joined with the owner's display
// name. filterUserID narrows the household-wide history to one member.
func (s *ReadingService) List(ctx context.Context, limit int, filterUserID *uuid.UUID) ([]models.ReadingWithUser, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := s.joined(ctx)
	if filterUserID != nil {
		q = q.Where("readings.user_id = ?", *filterUserID)
	}

	var rows []models.ReadingWithUser
	if err := q.Order("readings.recorded_at DESC").Limit(limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}

	return rows, nil
}

// Trend returns readings from the last N days in ascending order, shaped
// for charting. days is clamped to a sane window.
func (s *ReadingService) Trend(ctx context.Context, days int, filterUserID *uuid.UUID) ([]models.Reading, error) {
	if days < minTrendDays {
		days = minTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	since := time.Now().UTC().AddDate(0, 0, -days)

	q := s.db.WithContext(ctx).Where("recorded_at >= ?", since)
	if filterUserID != nil {
		q = q.Where("user_id = ?", *filterUserID)
	}

	var readings []models.Reading
	if err := q.Order("recorded_at ASC").Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to load trend readings: %w", err)
	}

	return readings, nil
}

// LatestSince returns the most recent reading with recorded_at >= since,
// optionally scoped to one user, or nil when none qualifies. This is the
// single query the daily-status resolver runs.
func (s *ReadingService) LatestSince(ctx context.Context, since time.Time, scopeUserID *uuid.UUID) (*models.ReadingWithUser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	q := s.joined(ctx).Where("readings.recorded_at >= ?", since)
	if scopeUserID != nil {
		q = q.Where("readings.user_id = ?", *scopeUserID)
	}

	var rows []models.ReadingWithUser
	if err := q.Order("readings.recorded_at DESC").Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (s *ReadingService) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("readings").
		Select("readings.*, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = readings.user_id")
}

func validateVitals(systolic, diastolic int, pulse *int) error {
	if systolic < minSystolic || systolic > maxSystolic {
		return fmt.Errorf("%w: systolic must be between %d and %d mmHg", ErrValidation, minSystolic, maxSystolic)
	}
	if diastolic < minDiastolic || diastolic > maxDiastolic {
		return fmt.Errorf("%w: diastolic must be between %d and %d mmHg", ErrValidation, minDiastolic, maxDiastolic)
	}
	if pulse != nil && (*pulse < minPulse || *pulse > maxPulse) {
		return fmt.Errorf("%w: pulse must be between %d and %d bpm", ErrValidation, minPulse, maxPulse)
	}
	return nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/models"
	"github.com/dkorkmaz/bptrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type stubReadingSource struct {
	row *models.ReadingWithUser
	err error

	gotSince time.Time
	gotScope *uuid.UUID
}

func (s *stubReadingSource) LatestSince(_ context.Context, since time.Time, scopeUserID *uuid.UUID) (*models.ReadingWithUser, error) {
	s.gotSince = since
	s.gotScope = scopeUserID
	return s.row, s.err
}

type checkReadingBody struct {
	HasReadingToday bool `json:"hasReadingToday"`
	LastReading     *struct {
		RecordedAt time.Time `json:"recorded_at"`
		UserName   string    `json:"user_name"`
	} `json:"lastReading"`
	CheckedAt time.Time `json:"checked_at"`
	Error     string    `json:"error"`
}

func newCheckReadingApp(source services.ReadingSource, now time.Time) (*fiber.App, *StatusHandler) {
	var handler *StatusHandler
	if source != nil {
		handler = NewStatusHandler(services.NewDailyStatusService(source))
	} else {
		handler = NewStatusHandler(nil)
	}
	if !now.IsZero() {
		handler.now = func() time.Time { return now }
	}

	app := fiber.New()
	app.All("/api/check-reading", handler.CheckReading)
	return app, handler
}

func doCheckReading(t *testing.T, app *fiber.App, method, target string) (*http.Response, checkReadingBody) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var body checkReadingBody
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("failed to decode body %q: %v", raw, err)
		}
	}
	return resp, body
}

func TestCheckReading_ReadingToday(t *testing.T) {
	recordedAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	source := &stubReadingSource{
		row: &models.ReadingWithUser{
			Reading:  models.Reading{RecordedAt: recordedAt},
			UserName: "Deniz",
		},
	}
	app, _ := newCheckReadingApp(source, now)

	resp, body := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !body.HasReadingToday {
		t.Error("expected hasReadingToday = true")
	}
	if body.LastReading == nil || body.LastReading.UserName != "Deniz" {
		t.Errorf("expected lastReading.user_name = Deniz, got %+v", body.LastReading)
	}
	if !body.LastReading.RecordedAt.Equal(recordedAt) {
		t.Errorf("expected recorded_at %v, got %v", recordedAt, body.LastReading.RecordedAt)
	}
	if !body.CheckedAt.Equal(now) {
		t.Errorf("expected checked_at %v, got %v", now, body.CheckedAt)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}

func TestCheckReading_NoReading(t *testing.T) {
	app, _ := newCheckReadingApp(&stubReadingSource{}, time.Time{})

	resp, body := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body.HasReadingToday {
		t.Error("expected hasReadingToday = false")
	}
	if body.LastReading != nil {
		t.Errorf("expected lastReading = null, got %+v", body.LastReading)
	}
}

// A store outage must never look like a recorded reading, and must not
// break the automation's parsing with a 500 either.
func TestCheckReading_StoreFailureFailsClosed(t *testing.T) {
	source := &stubReadingSource{err: errors.New("connection refused")}
	app, _ := newCheckReadingApp(source, time.Time{})

	resp, body := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on store failure, got %d", resp.StatusCode)
	}
	if body.HasReadingToday {
		t.Error("expected fail-closed hasReadingToday = false")
	}
	if body.LastReading != nil {
		t.Errorf("expected lastReading = null, got %+v", body.LastReading)
	}
	if body.CheckedAt.IsZero() {
		t.Error("expected checked_at to be set on the fail-closed path")
	}
}

func TestCheckReading_UserScope(t *testing.T) {
	source := &stubReadingSource{}
	app, _ := newCheckReadingApp(source, time.Time{})

	userID := uuid.New()
	resp, _ := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading?userId="+userID.String())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if source.gotScope == nil || *source.gotScope != userID {
		t.Errorf("expected scope %v in store query, got %v", userID, source.gotScope)
	}

	resp, _ = doCheckReading(t, app, fiber.MethodGet, "/api/check-reading")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if source.gotScope != nil {
		t.Errorf("expected any-user scope without userId param, got %v", source.gotScope)
	}
}

func TestCheckReading_InvalidUserID(t *testing.T) {
	app, _ := newCheckReadingApp(&stubReadingSource{}, time.Time{})

	resp, body := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading?userId=not-a-uuid")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body.Error != "Invalid userId" {
		t.Errorf("unexpected error body: %q", body.Error)
	}
}

func TestCheckReading_Options(t *testing.T) {
	app, _ := newCheckReadingApp(&stubReadingSource{}, time.Time{})

	req := httptest.NewRequest(fiber.MethodOptions, "/api/check-reading", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Errorf("expected GET, OPTIONS allowed, got %q", got)
	}
}

func TestCheckReading_MethodNotAllowed(t *testing.T) {
	app, _ := newCheckReadingApp(&stubReadingSource{}, time.Time{})

	resp, body := doCheckReading(t, app, fiber.MethodPost, "/api/check-reading")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if body.Error != "Method not allowed" {
		t.Errorf("unexpected error body: %q", body.Error)
	}
}

func TestCheckReading_MissingStoreConfiguration(t *testing.T) {
	app, _ := newCheckReadingApp(nil, time.Time{})

	resp, body := doCheckReading(t, app, fiber.MethodGet, "/api/check-reading")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body.Error != "Server configuration error" {
		t.Errorf("unexpected error body: %q", body.Error)
	}
}

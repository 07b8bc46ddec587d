package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkorkmaz/bptrack-backend/internal/config"
	"github.com/dkorkmaz/bptrack-backend/internal/models"
	"github.com/dkorkmaz/bptrack-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// asUser injects a parsed JWT into context the way the jwtware middleware
// does, so handlers can be exercised without real tokens.
func asUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": userID.String(),
		})
		c.Locals("user", token)
		return c.Next()
	}
}

func newReadingApp(t *testing.T, userID uuid.UUID) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Reading{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	svc := services.NewReadingService(db, &config.Config{StoreTimeout: 5 * time.Second})
	handler := NewReadingHandler(svc)

	app := fiber.New()
	readings := app.Group("/api/readings", asUser(userID))
	readings.Post("/", handler.CreateReading)
	readings.Get("/", handler.ListReadings)
	readings.Get("/trend", handler.Trend)
	readings.Patch("/:id", handler.AmendReading)
	readings.Delete("/:id", handler.DeleteReading)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, method, target string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateReading_ValidAndInvalid(t *testing.T) {
	userID := uuid.New()
	app, db := newReadingApp(t, userID)

	resp := postJSON(t, app, fiber.MethodPost, "/api/readings/", fiber.Map{
		"systolic": 130, "diastolic": 85, "pulse": 72,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		UserID   string `json:"user_id"`
		Category struct {
			Label string `json:"label"`
			Rank  int    `json:"rank"`
		} `json:"category"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.UserID != userID.String() {
		t.Errorf("expected reading attributed to %s, got %s", userID, created.UserID)
	}
	if created.Category.Label != "High BP (Stage 1)" {
		t.Errorf("expected Stage 1 category for 130/85, got %q", created.Category.Label)
	}

	resp = postJSON(t, app, fiber.MethodPost, "/api/readings/", fiber.Map{
		"systolic": 600, "diastolic": 85,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-bounds systolic, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Reading{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one persisted reading, got %d", count)
	}
}

func TestAmendReading_ByNonOwnerIsForbidden(t *testing.T) {
	owner := uuid.New()
	ownerApp, db := newReadingApp(t, owner)

	resp := postJSON(t, ownerApp, fiber.MethodPost, "/api/readings/", fiber.Map{
		"systolic": 130, "diastolic": 85,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Same store, different acting user.
	intruder := uuid.New()
	svc := services.NewReadingService(db, &config.Config{StoreTimeout: 5 * time.Second})
	handler := NewReadingHandler(svc)
	intruderApp := fiber.New()
	group := intruderApp.Group("/api/readings", asUser(intruder))
	group.Patch("/:id", handler.AmendReading)
	group.Delete("/:id", handler.DeleteReading)

	resp = postJSON(t, intruderApp, fiber.MethodPatch, "/api/readings/"+created.ID, fiber.Map{
		"systolic": 99,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner amend, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(fiber.MethodDelete, "/api/readings/"+created.ID, nil)
	delResp, err := intruderApp.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if delResp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner delete, got %d", delResp.StatusCode)
	}

	var stored models.Reading
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("failed to reload reading: %v", err)
	}
	if stored.Systolic != 130 {
		t.Errorf("record changed by non-owner: systolic = %d", stored.Systolic)
	}
}

func TestDeleteReading_ThenNotFound(t *testing.T) {
	userID := uuid.New()
	app, _ := newReadingApp(t, userID)

	resp := postJSON(t, app, fiber.MethodPost, "/api/readings/", fiber.Map{
		"systolic": 130, "diastolic": 85,
	})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodDelete, "/api/readings/"+created.ID, nil)
	delResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", delResp.StatusCode)
	}

	resp = postJSON(t, app, fiber.MethodPatch, "/api/readings/"+created.ID, fiber.Map{"systolic": 120})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 amending a removed reading, got %d", resp.StatusCode)
	}
}

func TestListReadings_JoinsUserName(t *testing.T) {
	userID := uuid.New()
	app, db := newReadingApp(t, userID)

	user := models.User{ID: userID, Email: "deniz@example.com", Name: "Deniz", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	resp := postJSON(t, app, fiber.MethodPost, "/api/readings/", fiber.Map{
		"systolic": 118, "diastolic": 76,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/api/readings/", nil)
	listResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.StatusCode)
	}

	var list struct {
		Count    int `json:"count"`
		Readings []struct {
			UserName string `json:"user_name"`
			Category struct {
				Label string `json:"label"`
			} `json:"category"`
		} `json:"readings"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if list.Count != 1 {
		t.Fatalf("expected 1 reading, got %d", list.Count)
	}
	if list.Readings[0].UserName != "Deniz" {
		t.Errorf("expected joined user name Deniz, got %q", list.Readings[0].UserName)
	}
	if list.Readings[0].Category.Label != "Normal" {
		t.Errorf("expected Normal category for 118/76, got %q", list.Readings[0].Category.Label)
	}
}

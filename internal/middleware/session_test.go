package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/civiceye/internal/auth"
)

const testSecret = "session-test-secret"

func setupSessionApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", SessionAuth(testSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"citizen_id": c.Locals("citizen_id"),
			"email":      c.Locals("citizen_email"),
		})
	})
	return app
}

func TestSessionAuthMissingToken(t *testing.T) {
	app := setupSessionApp()

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "missing bearer token" {
		t.Fatalf("expected missing-token message, got %q", body)
	}
}

func TestSessionAuthInvalidToken(t *testing.T) {
	app := setupSessionApp()

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != auth.ErrTokenInvalid.Error() {
		t.Fatalf("expected invalid-token message, got %q", body)
	}
}

func TestSessionAuthExpiredToken(t *testing.T) {
	app := setupSessionApp()

	token, err := auth.SignSession(testSecret, -time.Minute, 5, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestSessionAuthAttachesClaims(t *testing.T) {
	app := setupSessionApp()

	token, err := auth.SignSession(testSecret, time.Hour, 42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	var payload struct {
		CitizenID int64  `json:"citizen_id"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.CitizenID != 42 || payload.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", payload)
	}
}

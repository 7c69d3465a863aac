package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func setupAuthApp() (*fiber.App, *memoryOTPRepository) {
	svc, otps, _, _ := newTestService()
	h := NewHandler(svc)

	app := fiber.New()
	app.Post("/auth/signup/request-otp", h.RequestSignupOTP)
	app.Post("/auth/signup/verify-otp", h.VerifySignupOTP)
	app.Post("/auth/login", h.Login)
	return app, otps
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)
	return resp.StatusCode, string(raw), payload
}

func TestSignupEndToEnd(t *testing.T) {
	app, otps := setupAuthApp()

	form := `{
		"firstName": "Asha", "lastName": "Rao", "mobile": "9876543210",
		"email": "a@x.com", "password": "s3cret-pass", "confirmPassword": "s3cret-pass",
		"acceptTerms": true, "acceptPrivacy": true
	}`
	status, raw, payload := postJSON(t, app, "/auth/signup/request-otp", form)
	if status != fiber.StatusOK {
		t.Fatalf("request otp: expected 200, got %d (%s)", status, raw)
	}

	code := signupCode(t, otps, "a@x.com")
	verify := `{"email": "a@x.com", "otp": "` + code + `"}`

	status, raw, payload = postJSON(t, app, "/auth/signup/verify-otp", verify)
	if status != fiber.StatusOK {
		t.Fatalf("verify otp: expected 200, got %d (%s)", status, raw)
	}
	if payload["token"] == "" || payload["token"] == nil {
		t.Fatalf("expected session token in response")
	}
	user, ok := payload["user"].(map[string]any)
	if !ok || user["name"] != "Asha Rao" {
		t.Fatalf("expected submitted name in profile, got %v", payload["user"])
	}

	// Replay of a consumed code fails.
	status, _, _ = postJSON(t, app, "/auth/signup/verify-otp", verify)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 on replay, got %d", status)
	}
}

func TestSignupMismatchedPasswords(t *testing.T) {
	app, _ := setupAuthApp()

	form := `{
		"firstName": "Asha", "mobile": "9876543210", "email": "b@x.com",
		"password": "one", "confirmPassword": "two",
		"acceptTerms": true, "acceptPrivacy": true
	}`
	status, _, _ := postJSON(t, app, "/auth/signup/request-otp", form)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
}

func TestLoginWrongPasswordIsGeneric(t *testing.T) {
	app, otps := setupAuthApp()

	form := `{
		"firstName": "Asha", "mobile": "9876543210", "email": "c@x.com",
		"password": "right-pass", "confirmPassword": "right-pass",
		"acceptTerms": true, "acceptPrivacy": true
	}`
	if status, _, _ := postJSON(t, app, "/auth/signup/request-otp", form); status != fiber.StatusOK {
		t.Fatalf("request otp failed")
	}
	code := signupCode(t, otps, "c@x.com")
	if status, _, _ := postJSON(t, app, "/auth/signup/verify-otp", `{"email":"c@x.com","otp":"`+code+`"}`); status != fiber.StatusOK {
		t.Fatalf("verify otp failed")
	}

	// Wrong password on an existing account and an unknown account read the same.
	status, raw, _ := postJSON(t, app, "/auth/login", `{"email":"c@x.com","password":"wrong"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	statusUnknown, rawUnknown, _ := postJSON(t, app, "/auth/login", `{"email":"nobody@x.com","password":"wrong"}`)
	if statusUnknown != status {
		t.Fatalf("expected identical status, got %d and %d", status, statusUnknown)
	}
	if raw != rawUnknown {
		t.Fatalf("expected identical failure bodies, got %q and %q", raw, rawUnknown)
	}
}

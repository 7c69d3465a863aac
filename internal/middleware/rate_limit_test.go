package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupRateLimitApp(t *testing.T, maxPerMin int) (*fiber.App, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Post("/otp", EmailRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, cleanup
}

func postOTP(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/otp", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestEmailRateLimitBlocksAfterThreshold(t *testing.T) {
	app, cleanup := setupRateLimitApp(t, 3)
	defer cleanup()

	body := `{"email":"a@x.com"}`
	for i := 0; i < 3; i++ {
		if code := postOTP(t, app, body); code != fiber.StatusOK {
			t.Fatalf("request %d: expected %d, got %d", i+1, fiber.StatusOK, code)
		}
	}
	if code := postOTP(t, app, body); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected %d after limit, got %d", fiber.StatusTooManyRequests, code)
	}
}

func TestEmailRateLimitIsPerEmail(t *testing.T) {
	app, cleanup := setupRateLimitApp(t, 1)
	defer cleanup()

	if code := postOTP(t, app, `{"email":"a@x.com"}`); code != fiber.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := postOTP(t, app, `{"email":"b@x.com"}`); code != fiber.StatusOK {
		t.Fatalf("expected other email to pass, got %d", code)
	}
	if code := postOTP(t, app, `{"email":"a@x.com"}`); code != fiber.StatusTooManyRequests {
		t.Fatalf("expected repeat email to be limited, got %d", code)
	}
}

func TestEmailRateLimitNoopWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/otp", EmailRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		if code := postOTP(t, app, `{"email":"a@x.com"}`); code != fiber.StatusOK {
			t.Fatalf("expected pass without cache, got %d", code)
		}
	}
}

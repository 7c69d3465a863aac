package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAuditLogsRequestLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Audit(logger))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	var entry struct {
		Msg       string  `json:"msg"`
		Method    string  `json:"method"`
		Path      string  `json:"path"`
		Status    int     `json:"status"`
		Duration  float64 `json:"duration"`
		RequestID string  `json:"request_id"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v (%s)", err, buf.String())
	}
	if entry.Msg != "request completed" {
		t.Fatalf("unexpected message %q", entry.Msg)
	}
	if entry.Method != fiber.MethodGet || entry.Path != "/ping" || entry.Status != fiber.StatusOK {
		t.Fatalf("unexpected request fields: %+v", entry)
	}
	if entry.RequestID != "req-123" {
		t.Fatalf("expected propagated request id, got %q", entry.RequestID)
	}
}

func TestAuditLogsErrorOutcome(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New()
	app.Use(RequestID())
	app.Use(Audit(logger))
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad input")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/boom", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	var entry struct {
		Level string `json:"level"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v (%s)", err, buf.String())
	}
	if entry.Level != "ERROR" {
		t.Fatalf("expected error level, got %q", entry.Level)
	}
	if entry.Error != "bad input" {
		t.Fatalf("expected handler error in entry, got %q", entry.Error)
	}
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/civiceye/internal/auth"
)

// RegisterAuthRoutes wires the OTP and login endpoints. The rate limiter
// guards every endpoint that issues mail or checks credentials.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	guarded := func(path string, handler fiber.Handler) {
		if rateLimiter != nil {
			group.Post(path, rateLimiter, handler)
		} else {
			group.Post(path, handler)
		}
	}

	guarded("/signup/request-otp", h.RequestSignupOTP)
	group.Post("/signup/verify-otp", h.VerifySignupOTP)
	guarded("/login", h.Login)
	guarded("/login/request-otp", h.RequestLoginOTP)
	group.Post("/login/verify-otp", h.VerifyLoginOTP)
	guarded("/forgot/request-otp", h.RequestResetOTP)
	group.Post("/forgot/verify-otp", h.VerifyResetOTP)
}

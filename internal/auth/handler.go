package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civiceye/civiceye/internal/citizen"
)

// Handler exposes the OTP and login endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type sessionResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    citizen.Profile `json:"user"`
}

// RequestSignupOTP validates the registration form and emails a signup code.
func (h *Handler) RequestSignupOTP(c *fiber.Ctx) error {
	var form SignupForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RequestSignupOTP(c.UserContext(), form); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent to email successfully"})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifySignupOTP completes registration and returns a session token.
func (h *Handler) VerifySignupOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.VerifySignupOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Message: "Registration successful", Token: sess.Token, User: sess.Profile})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Message: "Login successful", Token: sess.Token, User: sess.Profile})
}

type emailRequest struct {
	Email string `json:"email"`
}

// RequestLoginOTP emails a login code to a registered address.
func (h *Handler) RequestLoginOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RequestLoginOTP(c.UserContext(), req.Email); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "OTP sent for login"})
}

// VerifyLoginOTP completes an OTP login and returns a session token.
func (h *Handler) VerifyLoginOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.VerifyLoginOTP(c.UserContext(), req.Email, req.OTP)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{Message: "Login successful via OTP", Token: sess.Token, User: sess.Profile})
}

// RequestResetOTP emails a password-reset code to a registered address.
func (h *Handler) RequestResetOTP(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RequestResetOTP(c.UserContext(), req.Email); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password reset OTP sent"})
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// VerifyResetOTP consumes a reset code and updates the password.
func (h *Handler) VerifyResetOTP(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.VerifyResetOTP(c.UserContext(), req.Email, req.OTP, req.NewPassword); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Password updated successfully"})
}

// mapError translates service errors into HTTP failures without leaking
// which part of a credential check failed.
func mapError(err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrOTPInvalid):
		return fiber.NewError(http.StatusBadRequest, ErrOTPInvalid.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return fiber.NewError(http.StatusBadRequest, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrNotRegistered):
		return fiber.NewError(http.StatusBadRequest, ErrNotRegistered.Error())
	case errors.Is(err, citizen.ErrEmailTaken):
		return fiber.NewError(http.StatusBadRequest, citizen.ErrEmailTaken.Error())
	case errors.Is(err, citizen.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, citizen.ErrNotFound.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "internal error")
	}
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/civiceye/civiceye/internal/citizen"
	"github.com/civiceye/civiceye/internal/config"
	"github.com/civiceye/civiceye/internal/mailer"
)

// Service drives the OTP-gated registration, login, and password-reset flows.
type Service struct {
	cfg      config.Config
	citizens citizen.Repository
	otps     OTPRepository
	mail     mailer.Mailer
	now      func() time.Time
}

// NewService creates the auth service.
func NewService(cfg config.Config, citizens citizen.Repository, otps OTPRepository, mail mailer.Mailer) *Service {
	return &Service{cfg: cfg, citizens: citizens, otps: otps, mail: mail, now: time.Now}
}

// Session is the result of a successful authentication.
type Session struct {
	Token   string
	Profile citizen.Profile
}

// RequestSignupOTP validates the registration form, stores it behind a fresh
// OTP, and emails the code. A repeat request for the same email replaces the
// earlier record, invalidating its code. The mail send is on the request
// path: if it fails the caller gets an error, but the pending record stays so
// a re-request does not need the form again.
func (s *Service) RequestSignupOTP(ctx context.Context, form SignupForm) error {
	if err := validateSignupForm(form); err != nil {
		return err
	}

	email := normalizeEmail(form.Email)
	form.Email = email

	if _, err := s.citizens.FindByEmail(ctx, email); err == nil {
		return citizen.ErrEmailTaken
	} else if !errors.Is(err, citizen.ErrNotFound) {
		return fmt.Errorf("check existing citizen: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	formData, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode signup form: %w", err)
	}

	rec := PendingSignup{
		Email:     email,
		Code:      code,
		FormData:  formData,
		ExpiresAt: s.now().Add(s.cfg.OTPTTL),
	}
	if err := s.otps.ReplaceSignupOTP(ctx, rec); err != nil {
		return fmt.Errorf("store signup otp: %w", err)
	}

	return s.sendOTP(ctx, email, code)
}

// VerifySignupOTP consumes the pending record, creates the citizen account,
// and issues a session. A second verification with the same code fails
// because consumption deleted the record.
func (s *Service) VerifySignupOTP(ctx context.Context, email, code string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return Session{}, validationf("email and OTP are required")
	}

	formData, err := s.otps.ConsumeSignupOTP(ctx, email, code, s.now())
	if err != nil {
		if errors.Is(err, ErrOTPInvalid) {
			return Session{}, ErrOTPInvalid
		}
		return Session{}, fmt.Errorf("consume signup otp: %w", err)
	}

	var form SignupForm
	if err := json.Unmarshal(formData, &form); err != nil {
		return Session{}, fmt.Errorf("decode stored signup form: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.cfg.BcryptCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	c := citizen.Citizen{
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		DOB:            form.DOB,
		Gender:         form.Gender,
		Mobile:         form.Mobile,
		Email:          email,
		PasswordHash:   string(hash),
		Country:        form.Country,
		State:          form.State,
		District:       form.District,
		City:           form.City,
		Pincode:        form.Pincode,
		AddressLine1:   form.AddressLine1,
		AddressLine2:   form.AddressLine2,
		GovIDType:      form.GovIDType,
		GovIDLast4:     form.GovIDLast4,
		AltPhone:       form.AltPhone,
		Language:       form.Language,
		NotifySMS:      form.NotifySMS,
		NotifyEmail:    form.NotifyEmail,
		NotifyWhatsApp: form.NotifyWhatsApp,
	}

	id, err := s.citizens.Create(ctx, c)
	if err != nil {
		return Session{}, fmt.Errorf("create citizen: %w", err)
	}
	c.ID = id

	return s.issueSession(c)
}

// Login authenticates with email and password. Unknown email and wrong
// password produce the same failure.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	c, err := s.citizens.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, citizen.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("find citizen: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.issueSession(c)
}

// RequestLoginOTP issues a login OTP for a registered email.
func (s *Service) RequestLoginOTP(ctx context.Context, email string) error {
	return s.requestLoginOrResetOTP(ctx, email, PurposeLogin)
}

// RequestResetOTP issues a password-reset OTP for a registered email.
func (s *Service) RequestResetOTP(ctx context.Context, email string) error {
	return s.requestLoginOrResetOTP(ctx, email, PurposeForgot)
}

func (s *Service) requestLoginOrResetOTP(ctx context.Context, email, purpose string) error {
	email = normalizeEmail(email)
	if email == "" {
		return validationf("email is required")
	}

	if _, err := s.citizens.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, citizen.ErrNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("find citizen: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	rec := LoginOTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: s.now().Add(s.cfg.OTPTTL),
	}
	if err := s.otps.ReplaceLoginOTP(ctx, rec); err != nil {
		return fmt.Errorf("store login otp: %w", err)
	}

	return s.sendOTP(ctx, email, code)
}

// VerifyLoginOTP consumes a login-purpose OTP and issues a session for the
// existing citizen.
func (s *Service) VerifyLoginOTP(ctx context.Context, email, code string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return Session{}, validationf("email and OTP are required")
	}

	if err := s.otps.ConsumeLoginOTP(ctx, email, code, PurposeLogin, s.now()); err != nil {
		if errors.Is(err, ErrOTPInvalid) {
			return Session{}, ErrOTPInvalid
		}
		return Session{}, fmt.Errorf("consume login otp: %w", err)
	}

	c, err := s.citizens.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, citizen.ErrNotFound) {
			return Session{}, citizen.ErrNotFound
		}
		return Session{}, fmt.Errorf("find citizen: %w", err)
	}

	return s.issueSession(c)
}

// VerifyResetOTP consumes a forgot-purpose OTP and replaces the citizen's
// password. No session is issued; the citizen logs in afresh.
func (s *Service) VerifyResetOTP(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return validationf("email and OTP are required")
	}
	if newPassword == "" {
		return validationf("new password is required")
	}

	if err := s.otps.ConsumeLoginOTP(ctx, email, code, PurposeForgot, s.now()); err != nil {
		if errors.Is(err, ErrOTPInvalid) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("consume reset otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.citizens.UpdatePassword(ctx, email, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *Service) issueSession(c citizen.Citizen) (Session, error) {
	token, err := SignSession(s.cfg.JWTSecret, s.cfg.SessionTTL, c.ID, c.Email)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: token, Profile: c.Profile()}, nil
}

func (s *Service) sendOTP(ctx context.Context, email, code string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.MailTimeout)
	defer cancel()

	subject := otpMailSubject(s.cfg.AppName)
	body := otpMailBody(s.cfg.AppName, code, int(s.cfg.OTPTTL.Minutes()))
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func validateSignupForm(form SignupForm) error {
	if strings.TrimSpace(form.Email) == "" {
		return validationf("email is required")
	}
	if strings.TrimSpace(form.FirstName) == "" {
		return validationf("first name is required")
	}
	if strings.TrimSpace(form.Mobile) == "" {
		return validationf("mobile number is required")
	}
	if !form.AcceptTerms || !form.AcceptPrivacy {
		return validationf("consent required")
	}
	if form.Password == "" {
		return validationf("password is required")
	}
	if form.Password != form.ConfirmPassword {
		return validationf("passwords do not match")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package auth

import (
	"errors"
	"fmt"
	"time"
)

// OTP purposes stored in the login_otps table. The purpose decides which
// transition a successful verification triggers.
const (
	PurposeLogin  = "login"
	PurposeForgot = "forgot"
)

// ErrOTPInvalid is the single failure for a wrong email, wrong code, or
// expired record. The caller must not learn which of the three it was.
var ErrOTPInvalid = errors.New("invalid or expired OTP")

// ErrInvalidCredentials is the single failure for password login, covering
// both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotRegistered is returned when requesting a login or reset OTP for an
// email with no account.
var ErrNotRegistered = errors.New("email not registered")

// ValidationError marks a request rejected before any persistence.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// SignupForm is the full registration payload held in a pending signup
// record until the email is verified.
type SignupForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	Mobile          string `json:"mobile"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Country         string `json:"country"`
	State           string `json:"state"`
	District        string `json:"district"`
	City            string `json:"city"`
	Pincode         string `json:"pincode"`
	AddressLine1    string `json:"addressLine1"`
	AddressLine2    string `json:"addressLine2"`
	GovIDType       string `json:"govIdType"`
	GovIDLast4      string `json:"govIdLast4"`
	AltPhone        string `json:"altPhone"`
	Language        string `json:"language"`
	NotifySMS       bool   `json:"notifySms"`
	NotifyEmail     bool   `json:"notifyEmail"`
	NotifyWhatsApp  bool   `json:"notifyWhatsApp"`
	AcceptTerms     bool   `json:"acceptTerms"`
	AcceptPrivacy   bool   `json:"acceptPrivacy"`
}

// PendingSignup is an issued signup OTP plus the serialized form it guards.
type PendingSignup struct {
	Email     string
	Code      string
	FormData  []byte
	ExpiresAt time.Time
}

// LoginOTP is an issued login or password-reset OTP.
type LoginOTP struct {
	Email     string
	Code      string
	Purpose   string
	ExpiresAt time.Time
}

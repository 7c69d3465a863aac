package auth

import (
	"context"
	"sync"
	"time"
)

type memoryOTPRepository struct {
	mu      sync.Mutex
	signups map[string]PendingSignup
	logins  map[string]LoginOTP
}

// NewMemoryOTPRepository builds an in-memory OTP store for development and tests.
func NewMemoryOTPRepository() OTPRepository {
	return &memoryOTPRepository{
		signups: make(map[string]PendingSignup),
		logins:  make(map[string]LoginOTP),
	}
}

func (r *memoryOTPRepository) ReplaceSignupOTP(_ context.Context, rec PendingSignup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signups[rec.Email] = rec
	return nil
}

func (r *memoryOTPRepository) ConsumeSignupOTP(_ context.Context, email, code string, now time.Time) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.signups[email]
	if !ok || rec.Code != code || !rec.ExpiresAt.After(now) {
		return nil, ErrOTPInvalid
	}
	delete(r.signups, email)
	return rec.FormData, nil
}

func (r *memoryOTPRepository) ReplaceLoginOTP(_ context.Context, rec LoginOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[rec.Email] = rec
	return nil
}

func (r *memoryOTPRepository) ConsumeLoginOTP(_ context.Context, email, code, purpose string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.logins[email]
	if !ok || rec.Code != code || rec.Purpose != purpose || !rec.ExpiresAt.After(now) {
		return ErrOTPInvalid
	}
	delete(r.logins, email)
	return nil
}

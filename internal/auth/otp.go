package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}

func otpMailSubject(appName string) string {
	return appName + " Email Verification OTP"
}

func otpMailBody(appName, code string, validMinutes int) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif;">
  <h2>%s Citizen Grievance Portal</h2>
  <p>Your one-time passcode is:</p>
  <h1 style="color:#1e3c72;">%s</h1>
  <p>This code is valid for <strong>%d minutes</strong>.</p>
  <p>If you did not request this, please ignore this email.</p>
</div>`, appName, code, validMinutes)
}

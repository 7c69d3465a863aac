package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := SignSession("secret", time.Hour, 42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifySession("secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	id, err := claims.CitizenID()
	if err != nil {
		t.Fatalf("citizen id: %v", err)
	}
	if id != 42 || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: id=%d email=%q", id, claims.Email)
	}
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := SignSession("secret", -time.Minute, 7, "b@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifySession("secret", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := SignSession("secret", time.Hour, 7, "c@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifySession("other", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for wrong secret, got %v", err)
	}
}

func TestSessionTokenGarbage(t *testing.T) {
	if _, err := VerifySession("secret", "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

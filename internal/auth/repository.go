package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OTPRepository persists pending OTP records. Replace semantics: one active
// record per email, a new request overwrites the prior one. Consume
// semantics: fetch and delete in a single step, so a code that verified once
// can never verify again.
type OTPRepository interface {
	ReplaceSignupOTP(ctx context.Context, rec PendingSignup) error
	ConsumeSignupOTP(ctx context.Context, email, code string, now time.Time) ([]byte, error)
	ReplaceLoginOTP(ctx context.Context, rec LoginOTP) error
	ConsumeLoginOTP(ctx context.Context, email, code, purpose string, now time.Time) error
}

// PostgresOTPRepository implements OTPRepository using PostgreSQL.
type PostgresOTPRepository struct {
	db *pgxpool.Pool
}

// NewPostgresOTPRepository builds a Postgres-backed OTP repository.
func NewPostgresOTPRepository(db *pgxpool.Pool) *PostgresOTPRepository {
	return &PostgresOTPRepository{db: db}
}

// ReplaceSignupOTP upserts the pending signup record keyed by email.
func (r *PostgresOTPRepository) ReplaceSignupOTP(ctx context.Context, rec PendingSignup) error {
	_, err := r.db.Exec(ctx, `INSERT INTO signup_otps (email, code, form_data, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET code = $2, form_data = $3, expires_at = $4`,
		rec.Email, rec.Code, rec.FormData, rec.ExpiresAt.UTC())
	return err
}

// ConsumeSignupOTP deletes the matching non-expired record and returns its
// form payload. The delete and the fetch are one statement, which is what
// makes a consumed code unusable on a retry.
func (r *PostgresOTPRepository) ConsumeSignupOTP(ctx context.Context, email, code string, now time.Time) ([]byte, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM signup_otps
		WHERE email = $1 AND code = $2 AND expires_at > $3
		RETURNING form_data`, email, code, now.UTC())

	var formData []byte
	if err := row.Scan(&formData); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPInvalid
		}
		return nil, err
	}
	return formData, nil
}

// ReplaceLoginOTP upserts the login/reset record keyed by email. A login
// request supersedes a pending reset request for the same email and vice
// versa, matching the one-row-per-email table shape.
func (r *PostgresOTPRepository) ReplaceLoginOTP(ctx context.Context, rec LoginOTP) error {
	_, err := r.db.Exec(ctx, `INSERT INTO login_otps (email, code, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET code = $2, purpose = $3, expires_at = $4`,
		rec.Email, rec.Code, rec.Purpose, rec.ExpiresAt.UTC())
	return err
}

// ConsumeLoginOTP deletes the matching non-expired record for the given purpose.
func (r *PostgresOTPRepository) ConsumeLoginOTP(ctx context.Context, email, code, purpose string, now time.Time) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM login_otps
		WHERE email = $1 AND code = $2 AND purpose = $3 AND expires_at > $4`,
		email, code, purpose, now.UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrOTPInvalid
	}
	return nil
}

package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema once at process start. Request handlers never
// touch DDL; a deploy that needs new columns ships a new statement here.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS citizens (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			dob TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			mobile TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			district TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			pincode TEXT NOT NULL DEFAULT '',
			address_line1 TEXT NOT NULL DEFAULT '',
			address_line2 TEXT NOT NULL DEFAULT '',
			gov_id_type TEXT NOT NULL DEFAULT '',
			gov_id_last4 TEXT NOT NULL DEFAULT '',
			alt_phone TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			notify_sms BOOLEAN NOT NULL DEFAULT FALSE,
			notify_email BOOLEAN NOT NULL DEFAULT TRUE,
			notify_whatsapp BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS signup_otps (
			email TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			form_data JSONB NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS login_otps (
			email TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			purpose TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS complaints (
			id BIGSERIAL PRIMARY KEY,
			citizen_id BIGINT REFERENCES citizens(id),
			title TEXT NOT NULL,
			submitter_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			category_id INT REFERENCES categories(id),
			location_id INT REFERENCES locations(id),
			street TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL,
			landmark TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'NORMAL',
			contact_time TEXT NOT NULL DEFAULT '',
			proof TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'REGISTERED',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS complaints_citizen_id_idx ON complaints (citizen_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	return nil
}

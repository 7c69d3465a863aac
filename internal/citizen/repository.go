package citizen

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no citizen matches the lookup key.
var ErrNotFound = errors.New("citizen not found")

// ErrEmailTaken is returned when creating a citizen with an email that is
// already registered.
var ErrEmailTaken = errors.New("email already registered")

const uniqueViolationCode = "23505"

// Repository persists citizen accounts.
type Repository interface {
	Create(ctx context.Context, c Citizen) (int64, error)
	FindByEmail(ctx context.Context, email string) (Citizen, error)
	FindByID(ctx context.Context, id int64) (Citizen, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed citizen repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new citizen and returns the generated id.
func (r *PostgresRepository) Create(ctx context.Context, c Citizen) (int64, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO citizens (
			first_name, last_name, dob, gender, mobile, email, password,
			country, state, district, city, pincode,
			address_line1, address_line2,
			gov_id_type, gov_id_last4, alt_phone,
			language, notify_sms, notify_email, notify_whatsapp, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING id`,
		c.FirstName, c.LastName, c.DOB, c.Gender, c.Mobile, c.Email, c.PasswordHash,
		c.Country, c.State, c.District, c.City, c.Pincode,
		c.AddressLine1, c.AddressLine2,
		c.GovIDType, c.GovIDLast4, c.AltPhone,
		c.Language, c.NotifySMS, c.NotifyEmail, c.NotifyWhatsApp, time.Now().UTC())

	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

const citizenColumns = `id, first_name, last_name, dob, gender, mobile, email, password,
	country, state, district, city, pincode, address_line1, address_line2,
	gov_id_type, gov_id_last4, alt_phone, language,
	notify_sms, notify_email, notify_whatsapp, created_at`

// FindByEmail fetches a citizen by email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (Citizen, error) {
	row := r.db.QueryRow(ctx, `SELECT `+citizenColumns+` FROM citizens WHERE email = $1`, email)
	return scanCitizen(row)
}

// FindByID fetches a citizen by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (Citizen, error) {
	row := r.db.QueryRow(ctx, `SELECT `+citizenColumns+` FROM citizens WHERE id = $1`, id)
	return scanCitizen(row)
}

// UpdatePassword replaces the stored password hash for the given email.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE citizens SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCitizen(row pgx.Row) (Citizen, error) {
	var c Citizen
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.DOB, &c.Gender, &c.Mobile, &c.Email, &c.PasswordHash,
		&c.Country, &c.State, &c.District, &c.City, &c.Pincode, &c.AddressLine1, &c.AddressLine2,
		&c.GovIDType, &c.GovIDLast4, &c.AltPhone, &c.Language,
		&c.NotifySMS, &c.NotifyEmail, &c.NotifyWhatsApp, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Citizen{}, ErrNotFound
		}
		return Citizen{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

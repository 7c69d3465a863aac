package complaint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// Repository persists complaints and the category/location lookup tables.
type Repository interface {
	Create(ctx context.Context, c Complaint) (int64, error)
	ListByCitizen(ctx context.Context, citizenID int64) ([]Complaint, error)
	ListAll(ctx context.Context) ([]Complaint, error)
	StatsByCitizen(ctx context.Context, citizenID int64) (Stats, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed complaint repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create resolves category and location names to ids (creating rows on first
// sight) and inserts the complaint in the initial state.
func (r *PostgresRepository) Create(ctx context.Context, c Complaint) (int64, error) {
	categoryID, err := r.getOrCreateName(ctx, "categories", c.Category)
	if err != nil {
		return 0, fmt.Errorf("resolve category: %w", err)
	}
	locationID, err := r.getOrCreateName(ctx, "locations", c.City)
	if err != nil {
		return 0, fmt.Errorf("resolve location: %w", err)
	}

	row := r.db.QueryRow(ctx, `INSERT INTO complaints
		(citizen_id, title, submitter_name, description, category_id, location_id,
		 street, address, landmark, priority, contact_time, proof, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14)
		RETURNING id`,
		c.CitizenID, c.Title, c.SubmitterName, c.Description, categoryID, locationID,
		c.Street, c.Address, c.Landmark, c.Priority, c.ContactTime, c.Proof,
		StatusRegistered, time.Now().UTC())

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// getOrCreateName maps a name to its id in a name-keyed lookup table. A race
// between two inserts of the same new name is settled by the unique
// constraint: the loser re-selects the winner's row.
func (r *PostgresRepository) getOrCreateName(ctx context.Context, table, name string) (int32, error) {
	var id int32
	err := r.db.QueryRow(ctx, `SELECT id FROM `+table+` WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = r.db.QueryRow(ctx, `INSERT INTO `+table+` (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if err := r.db.QueryRow(ctx, `SELECT id FROM `+table+` WHERE name = $1`, name).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return 0, err
}

const complaintColumns = `c.id, c.citizen_id, c.title, c.submitter_name, c.description,
	COALESCE(cat.name, ''), COALESCE(loc.name, ''),
	c.street, c.address, c.landmark, c.priority, c.contact_time, c.proof,
	c.status, c.created_at, c.updated_at`

const complaintJoins = `FROM complaints c
	LEFT JOIN categories cat ON c.category_id = cat.id
	LEFT JOIN locations loc ON c.location_id = loc.id`

// ListByCitizen returns the citizen's complaints, newest first.
func (r *PostgresRepository) ListByCitizen(ctx context.Context, citizenID int64) ([]Complaint, error) {
	rows, err := r.db.Query(ctx, `SELECT `+complaintColumns+` `+complaintJoins+`
		WHERE c.citizen_id = $1 ORDER BY c.id DESC`, citizenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// ListAll returns every complaint, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Complaint, error) {
	rows, err := r.db.Query(ctx, `SELECT `+complaintColumns+` `+complaintJoins+`
		ORDER BY c.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

// StatsByCitizen counts the citizen's complaints by resolution state.
func (r *PostgresRepository) StatsByCitizen(ctx context.Context, citizenID int64) (Stats, error) {
	row := r.db.QueryRow(ctx, `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status <> $2),
			COUNT(*) FILTER (WHERE status = $2)
		FROM complaints WHERE citizen_id = $1`, citizenID, StatusResolved)

	var s Stats
	if err := row.Scan(&s.Total, &s.Pending, &s.Closed); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func scanComplaints(rows pgx.Rows) ([]Complaint, error) {
	var out []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(
			&c.ID, &c.CitizenID, &c.Title, &c.SubmitterName, &c.Description,
			&c.Category, &c.City,
			&c.Street, &c.Address, &c.Landmark, &c.Priority, &c.ContactTime, &c.Proof,
			&c.Status, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		c.UpdatedAt = c.UpdatedAt.UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

package report

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL report repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns all reports for a beach created in the last 24 hours,
// newest first. Older reports never participate in aggregation, so they
// stay out of the read path entirely.
func (r *PostgresRepository) List(ctx context.Context, beachID int) ([]Report, error) {
	query := `
		SELECT
			id, beach_id, type, severity,
			lat, lon, moderated, approved, created_at
		FROM community_reports
		WHERE beach_id = $1
		  AND created_at > now() - interval '24 hours'
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, beachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.ID,
			&rep.BeachID,
			&rep.Type,
			&rep.Severity,
			&rep.Lat,
			&rep.Lon,
			&rep.Moderated,
			&rep.Approved,
			&rep.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Add stores a new report.
func (r *PostgresRepository) Add(ctx context.Context, rep Report) error {
	if rep.ID == "" || rep.Severity < 1 || rep.Severity > 3 {
		return ErrInvalidReport
	}

	query := `
		INSERT INTO community_reports
			(id, beach_id, type, severity, lat, lon, moderated, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		rep.ID, rep.BeachID, rep.Type, rep.Severity,
		rep.Lat, rep.Lon, rep.Moderated, rep.Approved, rep.CreatedAt)
	return err
}

// Moderate records the moderation decision for a report.
func (r *PostgresRepository) Moderate(ctx context.Context, id string, approved bool) error {
	query := `
		UPDATE community_reports
		SET moderated = true, approved = $2
		WHERE id = $1
		RETURNING id
	`

	var returned string
	err := r.pool.QueryRow(ctx, query, id, approved).Scan(&returned)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"fileview/internal/model"
	"fileview/internal/repository"
)

// LoadPostgres is a PostgreSQL implementation of repository.LoadRepository.
type LoadPostgres struct {
	db *sql.DB
}

// NewLoadPostgres creates a new LoadPostgres repository.
func NewLoadPostgres(db *sql.DB) *LoadPostgres {
	return &LoadPostgres{db: db}
}

var _ repository.LoadRepository = (*LoadPostgres)(nil)

const loadColumns = `id, query, status, file_count, enriched, enrich_failed, error, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(row rowScanner) (*model.Load, error) {
	var (
		l           model.Load
		status      string
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&l.ID,
		&l.Query,
		&status,
		&l.FileCount,
		&l.Enriched,
		&l.EnrichFailed,
		&l.Error,
		&l.StartedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	l.Status = model.LoadStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		l.CompletedAt = &t
	}
	return &l, nil
}

// Create inserts a new load row and returns the stored record.
func (r *LoadPostgres) Create(ctx context.Context, load *model.Load) (*model.Load, error) {
	const q = `
		INSERT INTO file_list_loads (id, query, status, file_count, enriched, enrich_failed, error, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + loadColumns

	var completedAt sql.NullTime
	if load.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *load.CompletedAt, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q,
		load.ID,
		load.Query,
		string(load.Status),
		load.FileCount,
		load.Enriched,
		load.EnrichFailed,
		load.Error,
		load.StartedAt,
		completedAt,
	)
	return scanLoad(row)
}

// Complete stores enrichment counts and the completion time.
func (r *LoadPostgres) Complete(ctx context.Context, id string, enriched, failed int, completedAt time.Time) error {
	const q = `
		UPDATE file_list_loads
		SET enriched = $2, enrich_failed = $3, completed_at = $4
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, enriched, failed, completedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID fetches a single load by its ID.
func (r *LoadPostgres) FindByID(ctx context.Context, id string) (*model.Load, error) {
	q := `SELECT ` + loadColumns + ` FROM file_list_loads WHERE id = $1`
	return scanLoad(r.db.QueryRowContext(ctx, q, id))
}

// List returns loads using LIMIT/OFFSET pagination and a total count.
func (r *LoadPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Load], error) {
	const qCount = `SELECT COUNT(*) FROM file_list_loads`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + loadColumns + ` FROM file_list_loads
		ORDER BY started_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Load, 0)
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Load]{
		Items: items,
		Total: total,
	}, nil
}

// Package repository handles data persistence.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/recordkit/recordkit/internal/database"
	"github.com/recordkit/recordkit/internal/idgen"
	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/internal/models"
)

// DefaultListLimit is used when List is called with a non-positive limit.
const DefaultListLimit = 50

// MaxListLimit caps the page size accepted by List.
const MaxListLimit = 500

// RecordRepository defines the interface for record persistence operations.
type RecordRepository interface {
	// Create stores a record that already carries its ID.
	Create(ctx context.Context, record *models.Record) error

	// GetByID retrieves a record by its ID.
	GetByID(ctx context.Context, id string) (*models.Record, error)

	// List returns records in insertion order.
	List(ctx context.Context, limit, offset int) ([]*models.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Delete removes a record by its ID.
	Delete(ctx context.Context, id string) error

	// HealthCheck verifies the repository is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresRecordRepository implements RecordRepository using PostgreSQL.
type PostgresRecordRepository struct {
	pool *database.Pool
}

// NewPostgresRecordRepository creates a new PostgreSQL-backed record repository.
func NewPostgresRecordRepository(pool *database.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

// Create stores a new record.
func (r *PostgresRecordRepository) Create(ctx context.Context, record *models.Record) error {
	defer observe("create", time.Now())

	_, err := r.pool.Exec(ctx,
		`INSERT INTO records (id, label, amount) VALUES ($1, $2, $3)`,
		record.ID, record.Label, record.Amount,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", models.ErrDuplicateID, record.ID)
		}
		return fmt.Errorf("failed to create record: %w", err)
	}
	return nil
}

// GetByID retrieves a record by its ID.
func (r *PostgresRecordRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if !idgen.IsValid(id) {
		return nil, models.ErrRecordNotFound
	}
	defer observe("get", time.Now())

	var record models.Record
	err := r.pool.QueryRow(ctx,
		`SELECT id::text, label, amount FROM records WHERE id = $1`, id,
	).Scan(&record.ID, &record.Label, &record.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

// List returns a page of records ordered by creation time.
func (r *PostgresRecordRepository) List(ctx context.Context, limit, offset int) ([]*models.Record, error) {
	defer observe("list", time.Now())
	limit, offset = NormalizePage(limit, offset)

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, label, amount FROM records ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Record, error) {
		var rec models.Record
		err := row.Scan(&rec.ID, &rec.Label, &rec.Amount)
		return &rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (r *PostgresRecordRepository) Count(ctx context.Context) (int64, error) {
	defer observe("count", time.Now())

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Delete removes a record by its ID.
func (r *PostgresRecordRepository) Delete(ctx context.Context, id string) error {
	if !idgen.IsValid(id) {
		return models.ErrRecordNotFound
	}
	defer observe("delete", time.Now())

	result, err := r.pool.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// HealthCheck verifies the database connection is healthy.
func (r *PostgresRecordRepository) HealthCheck(ctx context.Context) error {
	return r.pool.HealthCheck(ctx)
}

// isDuplicateKeyError checks if the error is a unique violation (SQLSTATE 23505).
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

// NormalizePage applies the default and maximum page size and clamps
// negative offsets to zero.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

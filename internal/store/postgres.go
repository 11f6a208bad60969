package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

const flagColumns = "id, key, enabled, rollout, variants, updated_at"

// PostgresStore is a PostgreSQL implementation of the Store interface
// backed by a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Migrate creates the flags table if it does not exist. Safe to run on
// every startup.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS flags (
			id         BIGSERIAL PRIMARY KEY,
			key        TEXT UNIQUE NOT NULL,
			enabled    BOOLEAN NOT NULL,
			rollout    INTEGER NULL,
			variants   JSONB NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate flags table: %w", err)
	}
	return nil
}

// List retrieves all flags ordered by key.
func (p *PostgresStore) List(ctx context.Context) ([]Flag, error) {
	rows, err := p.pool.Query(ctx, "SELECT "+flagColumns+" FROM flags ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	defer rows.Close()

	var flags []Flag
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return flags, nil
}

// Get retrieves a single flag by key.
func (p *PostgresStore) Get(ctx context.Context, key string) (*Flag, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+flagColumns+" FROM flags WHERE key = $1", key)
	flag, err := scanFlag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get flag %q: %w", key, err)
	}
	return &flag, nil
}

// Create inserts a new flag.
func (p *PostgresStore) Create(ctx context.Context, params CreateParams) (*Flag, error) {
	variants, err := marshalVariants(params.Variants)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO flags (key, enabled, rollout, variants, updated_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING `+flagColumns,
		params.Key, params.Enabled, params.Rollout, variants)

	flag, err := scanFlag(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrExists
		}
		return nil, fmt.Errorf("create flag %q: %w", params.Key, err)
	}
	return &flag, nil
}

// Update applies a partial update in a single statement; COALESCE keeps
// stored values for fields the caller did not provide.
func (p *PostgresStore) Update(ctx context.Context, key string, params UpdateParams) (*Flag, error) {
	variants, err := marshalVariants(params.Variants)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx, `
		UPDATE flags SET
			enabled    = COALESCE($2, enabled),
			rollout    = COALESCE($3, rollout),
			variants   = COALESCE($4, variants),
			updated_at = now()
		WHERE key = $1
		RETURNING `+flagColumns,
		key, params.Enabled, params.Rollout, variants)

	flag, err := scanFlag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update flag %q: %w", key, err)
	}
	return &flag, nil
}

// Delete removes a flag by key.
func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	tag, err := p.pool.Exec(ctx, "DELETE FROM flags WHERE key = $1", key)
	if err != nil {
		return fmt.Errorf("delete flag %q: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// marshalVariants encodes a variant map as JSONB, or nil for SQL NULL.
func marshalVariants(v map[string]uint32) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode variants: %w", err)
	}
	return b, nil
}

func scanFlag(row pgx.Row) (Flag, error) {
	var (
		flag     Flag
		variants []byte
	)
	if err := row.Scan(&flag.ID, &flag.Key, &flag.Enabled, &flag.Rollout, &variants, &flag.UpdatedAt); err != nil {
		return Flag{}, err
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &flag.Variants); err != nil {
			return Flag{}, fmt.Errorf("decode variants for %q: %w", flag.Key, err)
		}
	}
	return flag, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Compile-time interface check.
var _ domain.DefaultsStore = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS item_overrides (
	item       TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (item, field)
)`

// PostgresStore keeps overrides in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// OpenPostgres connects to dsn and ensures the schema exists.
func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Info("postgres override store ready")
	return &PostgresStore{pool: pool, log: log}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Get returns the override for an item field.
func (s *PostgresStore) Get(ctx context.Context, item string, field domain.RateField) (float64, bool, error) {
	var v float64
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM item_overrides WHERE item = $1 AND field = $2`,
		item, field.String(),
	).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying override: %w", err)
	}
	return v, true, nil
}

// Set stores an override, replacing any previous value.
func (s *PostgresStore) Set(ctx context.Context, item string, field domain.RateField, value float64) error {
	if err := domain.ValidateOverride(field, value); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO item_overrides (item, field, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item, field) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		item, field.String(), value,
	)
	if err != nil {
		return fmt.Errorf("saving override: %w", err)
	}
	s.log.Debug("saved override %s.%s=%g", item, field, value)
	return nil
}

// Delete removes one override.
func (s *PostgresStore) Delete(ctx context.Context, item string, field domain.RateField) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM item_overrides WHERE item = $1 AND field = $2`,
		item, field.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Reset drops every override.
func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM item_overrides`); err != nil {
		return fmt.Errorf("resetting overrides: %w", err)
	}
	s.log.Debug("overrides reset")
	return nil
}

// Snapshot reads every override.
func (s *PostgresStore) Snapshot(ctx context.Context) (domain.Overrides, error) {
	rows, err := s.pool.Query(ctx, `SELECT item, field, value FROM item_overrides`)
	if err != nil {
		return nil, fmt.Errorf("querying overrides: %w", err)
	}
	defer rows.Close()

	out := make(domain.Overrides)
	for rows.Next() {
		var (
			item, name string
			value      float64
		)
		if err := rows.Scan(&item, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		field := domain.RateFieldFromString(name)
		if field == domain.FieldUnknown {
			s.log.Warn("skipping override %s.%s: unknown field", item, name)
			continue
		}
		out.Set(item, field, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	return out, nil
}

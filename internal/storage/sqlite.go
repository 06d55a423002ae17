package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Compile-time interface check.
var _ domain.DefaultsStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS item_overrides (
	item       TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      REAL NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (item, field)
)`

// SQLiteStore keeps overrides in a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, path string, log *logger.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", path, err)
	}

	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			log.Warn("sqlite: %s failed: %v", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	log.Info("sqlite override store ready at %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the override for an item field.
func (s *SQLiteStore) Get(ctx context.Context, item string, field domain.RateField) (float64, bool, error) {
	var v float64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM item_overrides WHERE item = ? AND field = ?`,
		item, field.String(),
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying override: %w", err)
	}
	return v, true, nil
}

// Set stores an override, replacing any previous value.
func (s *SQLiteStore) Set(ctx context.Context, item string, field domain.RateField, value float64) error {
	if err := domain.ValidateOverride(field, value); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_overrides (item, field, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (item, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		item, field.String(), value,
	)
	if err != nil {
		return fmt.Errorf("saving override: %w", err)
	}
	s.log.Debug("saved override %s.%s=%g", item, field, value)
	return nil
}

// Delete removes one override.
func (s *SQLiteStore) Delete(ctx context.Context, item string, field domain.RateField) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM item_overrides WHERE item = ? AND field = ?`,
		item, field.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Reset drops every override.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM item_overrides`); err != nil {
		return fmt.Errorf("resetting overrides: %w", err)
	}
	s.log.Debug("overrides reset")
	return nil
}

// Snapshot reads every override. Rows naming a field this build does not
// know are skipped.
func (s *SQLiteStore) Snapshot(ctx context.Context) (domain.Overrides, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT item, field, value FROM item_overrides`)
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

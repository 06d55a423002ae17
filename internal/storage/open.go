package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open builds the store named by driver. On success the returned closer
// is never nil.
func Open(ctx context.Context, driver, dsn string, log *logger.Logger) (domain.DefaultsStore, io.Closer, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(log), nopCloser{}, nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "stockpile.db"
		}
		s, err := OpenSQLite(ctx, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case DriverPostgres:
		s, err := OpenPostgres(ctx, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package sqlite reads observation tables from SQLite using the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"energydash/internal/dataset"
	"energydash/internal/storage"
)

// Repository reads one table from a SQLite database.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens the database and pings it. The returned func closes
// the handle.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// ReadRaw selects the canonical columns from the configured table.
func (r *Repository) ReadRaw(ctx context.Context) (dataset.RawTable, error) {
	q, err := storage.SelectSQL(storage.QuoteDouble, r.cfg)
	if err != nil {
		return dataset.RawTable{}, err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return dataset.RawTable{}, fmt.Errorf("sqlite: query %s: %w", r.cfg.Table, err)
	}
	return storage.ScanRows(rows)
}

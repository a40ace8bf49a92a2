// Package mysql reads observation tables from MySQL or MariaDB.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"energydash/internal/dataset"
	"energydash/internal/storage"
)

// Repository reads one table from a MySQL database.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// parseDSN validates dsn and returns a connector config with a bounded dial
// timeout.
func parseDSN(dsn string) (*mysql.Config, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql dsn: %w", err)
	}
	if mc.Timeout == 0 {
		mc.Timeout = 10 * time.Second
	}
	return mc, nil
}

// NewRepository opens and pings a connection pool for cfg.DSN.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	mc, err := parseDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	conn, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(conn)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// ReadRaw selects the canonical columns from the configured table.
func (r *Repository) ReadRaw(ctx context.Context) (dataset.RawTable, error) {
	q, err := storage.SelectSQL(storage.QuoteBacktick, r.cfg)
	if err != nil {
		return dataset.RawTable{}, err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return dataset.RawTable{}, fmt.Errorf("mysql: query %s: %w", r.cfg.Table, err)
	}
	return storage.ScanRows(rows)
}

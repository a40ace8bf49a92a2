// Package mssql reads observation tables from SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"energydash/internal/dataset"
	"energydash/internal/storage"
)

// Repository reads one table from a SQL Server database.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository validates the DSN, opens a pool and pings it.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mssql ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// ReadRaw selects the canonical columns from the configured table.
func (r *Repository) ReadRaw(ctx context.Context) (dataset.RawTable, error) {
	q, err := storage.SelectSQL(storage.QuoteBracket, r.cfg)
	if err != nil {
		return dataset.RawTable{}, err
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return dataset.RawTable{}, fmt.Errorf("mssql: query %s: %w", r.cfg.Table, err)
	}
	return storage.ScanRows(rows)
}

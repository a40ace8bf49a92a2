// Package postgres reads observation tables from Postgres using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"energydash/internal/dataset"
	"energydash/internal/storage"
)

// Repository reads one table through a pgx pool.
type Repository struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// NewRepository constructs a pool for cfg.DSN. The pool connects lazily;
// the first query surfaces connection errors.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// quotePart quotes a single identifier part with pgx rules.
func quotePart(p string) string { return pgx.Identifier{p}.Sanitize() }

// selectSQL builds the SELECT for cfg.
func selectSQL(cfg storage.Config) (string, error) {
	return storage.SelectSQL(quotePart, cfg)
}

// ReadRaw selects the canonical columns from the configured table.
func (r *Repository) ReadRaw(ctx context.Context) (dataset.RawTable, error) {
	q, err := selectSQL(r.cfg)
	if err != nil {
		return dataset.RawTable{}, err
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return dataset.RawTable{}, fmt.Errorf("postgres: query %s: %w", r.cfg.Table, err)
	}
	defer rows.Close()

	t := dataset.RawTable{Header: append([]string(nil), dataset.RequiredColumns...)}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return dataset.RawTable{}, fmt.Errorf("postgres: values: %w", err)
		}
		row := make([]string, len(dataset.RequiredColumns))
		for i := range row {
			if i < len(vals) {
				row[i] = storage.CellString(vals[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return dataset.RawTable{}, fmt.Errorf("postgres: rows: %w", err)
	}
	return t, nil
}

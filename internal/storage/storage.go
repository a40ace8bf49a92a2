// Package storage reads Eurostat observation tables out of relational
// databases. Backends register a Factory under their kind ("sqlite",
// "postgres", "mysql", "mssql") from init; import storage/all to enable them.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"energydash/internal/dataset"
)

// Config describes one table to read.
type Config struct {
	Kind  string
	DSN   string
	Table string

	// Columns maps canonical names (geo, TIME_PERIOD, OBS_VALUE) to the
	// table's column names. Missing entries use the canonical name.
	Columns map[string]string
}

// Column returns the source column for the canonical name.
func (c Config) Column(canonical string) string {
	if v, ok := c.Columns[canonical]; ok && v != "" {
		return v
	}
	return canonical
}

// Repository reads one configured table as a raw, uncleaned table whose
// header is dataset.RequiredColumns.
type Repository interface {
	ReadRaw(ctx context.Context) (dataset.RawTable, error)
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Kinds lists registered backends, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// ReadTable opens cfg, reads it, and closes the repository.
func ReadTable(ctx context.Context, cfg Config) (dataset.RawTable, error) {
	repo, err := New(ctx, cfg)
	if err != nil {
		return dataset.RawTable{}, err
	}
	defer repo.Close()
	return repo.ReadRaw(ctx)
}

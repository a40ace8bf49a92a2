// Package datasource defines where raw dataset bytes come from. Concrete
// sources live in subpackages (file, httpds); database-backed tables are
// read through the storage package instead.
package datasource

import (
	"context"
	"io"
)

// Source opens a stream of raw bytes. Each call to Open yields a fresh
// reader which the caller must close.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

package loader

import (
	"context"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"energydash/internal/config"
	"energydash/internal/dashboard"
	"energydash/internal/dataset"
)

// Memo caches built Bases by source identity. Concurrent callers asking for
// the same identity share a single load. Failed loads are not cached.
type Memo struct {
	loader *Loader

	group singleflight.Group
	mu    sync.RWMutex
	cache map[uint64]*dashboard.Base
}

// NewMemo wraps l.
func NewMemo(l *Loader) *Memo {
	return &Memo{loader: l, cache: map[uint64]*dashboard.Base{}}
}

// Key hashes everything that determines the Base built from d.
func Key(d config.Dashboard) uint64 {
	h := xxh3.New()
	for _, m := range dataset.Metrics {
		_, _ = h.WriteString(d.Sources.For(m).Identity())
		_, _ = h.WriteString("\x00")
	}
	_, _ = h.WriteString(strconv.Itoa(d.Ranking.TopK))
	return h.Sum64()
}

// Get returns the cached Base for d, loading it on a miss.
func (m *Memo) Get(ctx context.Context, d config.Dashboard) (*dashboard.Base, error) {
	key := Key(d)
	m.mu.RLock()
	b, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := m.group.Do(strconv.FormatUint(key, 16), func() (any, error) {
		b, err := m.loader.LoadBase(ctx, d)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.cache[key] = b
		m.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dashboard.Base), nil
}

// Package loader fetches the three Eurostat tables, cleans them and builds
// the shared dashboard.Base.
//
// Byte sources (file, http) go through the CSV parser; database sources are
// read through the storage registry. The three tables load concurrently.
package loader

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"energydash/internal/config"
	"energydash/internal/dashboard"
	"energydash/internal/datasource"
	"energydash/internal/datasource/file"
	"energydash/internal/datasource/httpds"
	"energydash/internal/dataset"
	"energydash/internal/metrics"
	csvparser "energydash/internal/parser/csv"
	"energydash/internal/storage"
)

// Raw holds the uncleaned table of each dataset.
type Raw map[dataset.Metric]dataset.RawTable

// Loader reads raw tables. The zero value is not usable; use New.
type Loader struct {
	log *zap.Logger

	// readDB reads a database source; replaced in tests.
	readDB func(ctx context.Context, cfg storage.Config) (dataset.RawTable, error)
	// httpClient builds the client for an http source; replaced in tests.
	httpClient func(src config.SourceHTTP) *httpds.Client
}

// New returns a Loader logging to log (nil means a no-op logger).
func New(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		log:        log,
		readDB:     storage.ReadTable,
		httpClient: newHTTPClient,
	}
}

func newHTTPClient(src config.SourceHTTP) *httpds.Client {
	return httpds.NewClient(httpds.Config{
		Timeout:            time.Duration(src.TimeoutSeconds) * time.Second,
		MaxRetries:         src.MaxRetries,
		InsecureSkipVerify: src.InsecureSkipVerify,
	})
}

// Load reads all three datasets concurrently. The first failure cancels the
// others and is returned wrapped with dataset.ErrDataUnavailable.
func (l *Loader) Load(ctx context.Context, sources config.Sources) (Raw, error) {
	tables := make([]dataset.RawTable, len(dataset.Metrics))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range dataset.Metrics {
		g.Go(func() error {
			start := time.Now()
			t, err := l.LoadOne(gctx, m, sources.For(m))
			metrics.RecordStep("load", string(m), err, time.Since(start))
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := make(Raw, len(tables))
	for i, m := range dataset.Metrics {
		raw[m] = tables[i]
	}
	return raw, nil
}

// LoadOne reads a single dataset and checks it has the required columns.
func (l *Loader) LoadOne(ctx context.Context, m dataset.Metric, src config.Source) (dataset.RawTable, error) {
	log := l.log.With(zap.String("dataset", string(m)), zap.String("source", src.Identity()))
	start := time.Now()

	t, err := l.read(ctx, src)
	if err == nil {
		err = t.CheckColumns()
	}
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return dataset.RawTable{}, unavailable(m, err)
	}
	log.Info("loaded", zap.Int("rows", len(t.Rows)), zap.Duration("duration", time.Since(start)))
	return t, nil
}

func (l *Loader) read(ctx context.Context, src config.Source) (dataset.RawTable, error) {
	if src.IsDB() {
		return l.readDB(ctx, storage.Config{
			Kind:    src.Kind,
			DSN:     src.DB.DSN,
			Table:   src.DB.Table,
			Columns: src.DB.Columns,
		})
	}

	var ds datasource.Source
	switch src.Kind {
	case "file":
		lf := file.NewLocal(src.File.Path)
		l.log.Debug("opening file", zap.String("path", lf.Path()))
		ds = lf
	case "http":
		hs := httpds.NewSource(l.httpClient(src.HTTP), src.HTTP.URL)
		l.log.Debug("fetching", zap.String("url", hs.URL()))
		ds = hs
	default:
		return dataset.RawTable{}, fmt.Errorf("unknown source kind %q", src.Kind)
	}

	rc, err := ds.Open(ctx)
	if err != nil {
		return dataset.RawTable{}, err
	}
	defer rc.Close()
	return csvparser.Parse(rc, csvparser.OptionsFrom(src.Parser.Options))
}

// unavailable wraps err so that errors.Is matches both ErrDataUnavailable
// and the underlying cause.
func unavailable(m dataset.Metric, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w: %w", m, dataset.ErrDataUnavailable, err)
}

// Build cleans every table and indexes the result. A missing table is
// reported before any cleaning starts; any cleaning error (for example
// dataset.ErrInvalidYear) aborts the build.
func (l *Loader) Build(raw Raw, topK int) (*dashboard.Base, error) {
	for _, m := range dataset.Metrics {
		if _, ok := raw[m]; !ok {
			return nil, unavailable(m, fmt.Errorf("no raw table"))
		}
	}

	cleaned := make(map[dataset.Metric]dataset.ObservationTable, len(dataset.Metrics))
	for _, m := range dataset.Metrics {
		t := raw[m]
		start := time.Now()
		obs, stats, err := dataset.Clean(t, m)
		metrics.RecordStep("clean", string(m), err, time.Since(start))
		if err != nil {
			l.log.Error("clean failed", zap.String("dataset", string(m)), zap.Error(err))
			return nil, err
		}
		metrics.RecordRows(string(m), "input", stats.Input)
		metrics.RecordRows(string(m), "kept", stats.Kept)
		metrics.RecordRows(string(m), "null", stats.Nulls)
		metrics.RecordRows(string(m), "unparsable", stats.Unparsable)
		l.log.Info("cleaned",
			zap.String("dataset", string(m)),
			zap.Int("rows", stats.Kept),
			zap.Int("dropped", stats.Dropped()),
			zap.Int("unparsable", stats.Unparsable),
		)
		cleaned[m] = obs
	}

	b, err := dashboard.NewBase(cleaned[dataset.Emissions], cleaned[dataset.Renewables], cleaned[dataset.Energy], topK)
	if err != nil {
		return nil, err
	}
	if dashboard.IsEmptyRange(b.RangeErr) {
		l.log.Warn("datasets share no year", zap.Error(b.RangeErr))
	} else {
		l.log.Info("indexed",
			zap.Int("countries", len(b.Countries)),
			zap.Int("from", b.Years.From),
			zap.Int("to", b.Years.To),
		)
	}
	return b, nil
}

// LoadBase is Load followed by Build.
func (l *Loader) LoadBase(ctx context.Context, d config.Dashboard) (*dashboard.Base, error) {
	raw, err := l.Load(ctx, d.Sources)
	if err != nil {
		return nil, err
	}
	return l.Build(raw, d.Ranking.TopK)
}

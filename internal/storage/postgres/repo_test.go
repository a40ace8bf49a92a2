package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"energydash/internal/dataset"
	"energydash/internal/storage"
)

func TestSelectSQL(t *testing.T) {
	got, err := selectSQL(storage.Config{
		Table:   "public.eurostat_energy",
		Columns: map[string]string{dataset.ColObsValue: "obs value"},
	})
	if err != nil {
		t.Fatalf("selectSQL: %v", err)
	}
	want := `SELECT "geo", "TIME_PERIOD", "obs value" FROM "public"."eurostat_energy"`
	if got != want {
		t.Fatalf("selectSQL =\n%s\nwant\n%s", got, want)
	}
	if _, err := selectSQL(storage.Config{}); err == nil {
		t.Fatal("selectSQL(no table) = nil error")
	}
}

func TestFactory_WrapsRepository(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	closed := false
	newRepository = func(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}
	repo, err := storage.New(context.Background(), storage.Config{Kind: "postgres", DSN: "postgres://x", Table: "t"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not reach the close func")
	}

	boom := errors.New("boom")
	newRepository = func(context.Context, storage.Config) (*Repository, func(), error) { return nil, nil, boom }
	if _, err := storage.New(context.Background(), storage.Config{Kind: "postgres"}); !errors.Is(err, boom) {
		t.Fatalf("New error = %v, want boom", err)
	}
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	if _, _, err := NewRepository(context.Background(), storage.Config{}); err == nil {
		t.Fatal("NewRepository(empty DSN) = nil error")
	}
}

// TestReadRaw_Integration runs against a live server when PG_TEST_DSN is set.
func TestReadRaw_Integration(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set")
	}
	ctx := context.Background()
	r, closeFn, err := NewRepository(ctx, storage.Config{DSN: dsn, Table: "energydash_it"})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	defer closeFn()

	for _, s := range []string{
		`DROP TABLE IF EXISTS energydash_it`,
		`CREATE TABLE energydash_it (geo text, "TIME_PERIOD" int, "OBS_VALUE" double precision)`,
		`INSERT INTO energydash_it VALUES ('Germany', 2010, 800.5), ('France', 2010, NULL)`,
	} {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			t.Fatalf("Exec(%q): %v", s, err)
		}
	}
	defer r.pool.Exec(ctx, `DROP TABLE IF EXISTS energydash_it`)

	tab, err := r.ReadRaw(ctx)
	if err != nil {
		t.Fatalf("ReadRaw: %v", err)
	}
	if len(tab.Rows) != 2 || tab.Rows[0][2] != "800.5" || tab.Rows[1][2] != "" {
		t.Fatalf("Rows = %q", tab.Rows)
	}
}

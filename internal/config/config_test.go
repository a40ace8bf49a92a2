package config

import (
	"os"
	"path/filepath"
	"testing"

	"energydash/internal/dataset"
)

const jsonConfig = `{
  "title": "EU dashboard",
  "sources": {
    "emissions":  {"kind": "file", "file": {"path": "emi.csv"}, "parser": {"kind": "csv", "options": {"comma": ";", "charset": "latin1"}}},
    "renewables": {"kind": "http", "http": {"url": "https://example.org/ren.csv", "max_retries": 2}},
    "energy":     {"kind": "sqlite", "db": {"dsn": "file:e.db", "table": "energy", "columns": {"OBS_VALUE": "value"}}}
  },
  "ranking": {"top_k": 5},
  "server": {"addr": ":9090"}
}`

const yamlConfig = `
title: EU dashboard
sources:
  emissions:
    kind: file
    file: {path: emi.csv}
    parser:
      kind: csv
      options: {comma: ";", charset: latin1}
  renewables:
    kind: http
    http: {url: "https://example.org/ren.csv", max_retries: 2}
  energy:
    kind: sqlite
    db:
      dsn: file:e.db
      table: energy
      columns: {OBS_VALUE: value}
ranking: {top_k: 5}
server: {addr: ":9090"}
`

func TestDecode_JSONAndYAMLAgree(t *testing.T) {
	for _, tc := range []struct {
		name, ext, doc string
	}{
		{"json", ".json", jsonConfig},
		{"yaml", ".yaml", yamlConfig},
		{"yml", ".YML", yamlConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Decode([]byte(tc.doc), tc.ext)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if d.Title != "EU dashboard" || d.Ranking.TopK != 5 || d.Server.Addr != ":9090" {
				t.Fatalf("top-level = %+v", d)
			}
			emi := d.Sources.For(dataset.Emissions)
			if emi.Kind != "file" || emi.File.Path != "emi.csv" {
				t.Fatalf("emissions = %+v", emi)
			}
			if got := emi.Parser.Options.Rune("comma", ','); got != ';' {
				t.Fatalf("comma = %q, want ';'", got)
			}
			if got := emi.Parser.Options.String("charset", ""); got != "latin1" {
				t.Fatalf("charset = %q", got)
			}
			if got := d.Sources.For(dataset.Renewables).HTTP.MaxRetries; got != 2 {
				t.Fatalf("max_retries = %d, want 2", got)
			}
			ene := d.Sources.For(dataset.Energy)
			if !ene.IsDB() || ene.DB.Columns["OBS_VALUE"] != "value" {
				t.Fatalf("energy = %+v", ene)
			}
		})
	}
}

func TestLoad_ReadsFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dash.yaml")
	if err := os.WriteFile(path, []byte(yamlConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Sources.Energy.DB.Table != "energy" {
		t.Fatalf("energy table = %q", d.Sources.Energy.DB.Table)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("Load(missing) = nil error")
	}
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0o600)
	if _, err := Load(bad); err == nil {
		t.Fatal("Load(bad json) = nil error")
	}
}

func TestSource_Identity(t *testing.T) {
	a := Source{Kind: "sqlite", DB: SourceDB{DSN: "x.db", Table: "t"}}
	b := Source{Kind: "sqlite", DB: SourceDB{DSN: "x.db", Table: "u"}}
	if a.Identity() == b.Identity() {
		t.Fatalf("different tables share identity %q", a.Identity())
	}
	f := Source{Kind: "file", File: SourceFile{Path: "a.csv"}}
	if got := f.Identity(); got != "file:a.csv" {
		t.Fatalf("Identity = %q", got)
	}
}

func TestOptions_Getters(t *testing.T) {
	o := Options{
		"n":    float64(3),
		"m":    7,
		"s":    "x",
		"b":    true,
		"hmap": map[string]any{"Land": "geo", "skip": 1},
	}
	if o.Int("n", 0) != 3 || o.Int("m", 0) != 7 || o.Int("absent", 9) != 9 {
		t.Fatalf("Int getters wrong")
	}
	if o.String("s", "") != "x" || o.String("n", "def") != "def" {
		t.Fatalf("String getters wrong")
	}
	if !o.Bool("b", false) || o.Bool("s", false) {
		t.Fatalf("Bool getters wrong")
	}
	hm := o.StringMap("hmap")
	if len(hm) != 1 || hm["Land"] != "geo" {
		t.Fatalf("StringMap = %v", hm)
	}
	if got := Options(nil).StringMap("x"); got == nil {
		t.Fatal("StringMap on nil options returned nil")
	}
}

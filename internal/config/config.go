// Package config defines the configuration model of the dashboard: where each
// of the three datasets comes from, how it is parsed, and the ranking,
// server and metrics settings.
//
// Files are JSON by default; a ".yaml" or ".yml" extension selects YAML.
// Field names are identical in both encodings.
//
// Example (trimmed):
//
//	{
//	  "sources": {
//	    "emissions":  { "kind": "file", "file": { "path": "data/eurostat_emissions.csv" } },
//	    "renewables": { "kind": "http", "http": { "url": "https://example.org/ren.csv" } },
//	    "energy":     { "kind": "sqlite", "db": { "dsn": "file:eurostat.db", "table": "energy" } }
//	  },
//	  "ranking": { "top_k": 10 },
//	  "server":  { "addr": ":8080" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"energydash/internal/dataset"
)

// Dashboard is the top-level object decoded from a config file.
type Dashboard struct {
	// Title overrides the page title handed to presenters.
	Title   string  `json:"title" yaml:"title"`
	Sources Sources `json:"sources" yaml:"sources"`
	Ranking Ranking `json:"ranking" yaml:"ranking"`
	Server  Server  `json:"server" yaml:"server"`
	Metrics Metrics `json:"metrics" yaml:"metrics"`
}

// Sources names one source per dataset.
type Sources struct {
	Emissions  Source `json:"emissions" yaml:"emissions"`
	Renewables Source `json:"renewables" yaml:"renewables"`
	Energy     Source `json:"energy" yaml:"energy"`
}

// For returns the source configured for m.
func (s Sources) For(m dataset.Metric) Source {
	switch m {
	case dataset.Emissions:
		return s.Emissions
	case dataset.Renewables:
		return s.Renewables
	default:
		return s.Energy
	}
}

// Source describes where one dataset is read from.
type Source struct {
	// Kind selects the implementation: "file", "http", or a storage backend
	// ("sqlite", "postgres", "mysql", "mssql").
	Kind string `json:"kind" yaml:"kind"`

	File SourceFile `json:"file" yaml:"file"`
	HTTP SourceHTTP `json:"http" yaml:"http"`
	DB   SourceDB   `json:"db" yaml:"db"`

	// Parser applies to byte sources (file, http).
	Parser Parser `json:"parser" yaml:"parser"`
}

// IsDB reports whether the source reads from a database backend.
func (s Source) IsDB() bool {
	switch s.Kind {
	case "sqlite", "postgres", "mysql", "mssql":
		return true
	}
	return false
}

// Identity is a stable description of what the source reads. Two sources
// with the same identity yield the same raw table.
func (s Source) Identity() string {
	switch {
	case s.Kind == "file":
		return "file:" + s.File.Path
	case s.Kind == "http":
		return "http:" + s.HTTP.URL
	case s.IsDB():
		return fmt.Sprintf("%s:%s#%s", s.Kind, s.DB.DSN, s.DB.Table)
	}
	return s.Kind
}

// SourceFile holds options for the "file" kind.
type SourceFile struct {
	Path string `json:"path" yaml:"path"`
}

// SourceHTTP holds options for the "http" kind.
type SourceHTTP struct {
	URL                string `json:"url" yaml:"url"`
	TimeoutSeconds     int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries         int    `json:"max_retries" yaml:"max_retries"`
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// SourceDB holds options for database kinds.
type SourceDB struct {
	DSN   string `json:"dsn" yaml:"dsn"`
	Table string `json:"table" yaml:"table"`

	// Columns maps the canonical raw names (geo, TIME_PERIOD, OBS_VALUE) to
	// the column names in Table. Unmapped names are used as-is.
	Columns map[string]string `json:"columns" yaml:"columns"`
}

// Parser selects how raw bytes become a table. Only "csv" exists today.
type Parser struct {
	Kind string `json:"kind" yaml:"kind"`

	// Options for csv: comma (string), charset (string), trim_space (bool),
	// header_map (object), normalize_unicode (bool).
	Options Options `json:"options" yaml:"options"`
}

// Ranking configures the top-emitters view.
type Ranking struct {
	TopK int `json:"top_k" yaml:"top_k"`
}

// Server configures the HTTP shell.
type Server struct {
	Addr                string `json:"addr" yaml:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`

	// Session registry bounds; zero picks the server defaults.
	SessionIdleSeconds int `json:"session_idle_seconds" yaml:"session_idle_seconds"`
	MaxSessions        int `json:"max_sessions" yaml:"max_sessions"`
}

// Metrics configures the metrics backend; flags override these values.
type Metrics struct {
	Backend        string   `json:"backend" yaml:"backend"`
	Job            string   `json:"job" yaml:"job"`
	PushgatewayURL string   `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string   `json:"datadog_addr" yaml:"datadog_addr"`
	DatadogTags    []string `json:"datadog_tags" yaml:"datadog_tags"`
}

// Load reads a config file, picking YAML or JSON by extension.
func Load(path string) (Dashboard, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Dashboard{}, fmt.Errorf("read config: %w", err)
	}
	return Decode(b, filepath.Ext(path))
}

// Decode parses a config document. ext is a file extension such as ".yaml".
func Decode(b []byte, ext string) (Dashboard, error) {
	var d Dashboard
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &d); err != nil {
			return Dashboard{}, fmt.Errorf("decode yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &d); err != nil {
			return Dashboard{}, fmt.Errorf("decode json config: %w", err)
		}
	}
	return d, nil
}

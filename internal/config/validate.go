package config

import (
	"fmt"
	"strings"

	"energydash/internal/dataset"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks loading.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block loading.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding.
//
// Path is a dotted path into the config (e.g. "sources.energy.db.table").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateDashboard performs static validation of d without mutating it.
func ValidateDashboard(d Dashboard) []Issue {
	var issues []Issue
	for _, m := range dataset.Metrics {
		issues = append(issues, validateSource("sources."+string(m), d.Sources.For(m))...)
	}
	issues = append(issues, validateRanking(d.Ranking)...)
	issues = append(issues, validateServer(d.Server)...)
	issues = append(issues, validateMetrics(d.Metrics)...)
	return issues
}

func validateSource(path string, s Source) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{SeverityError, path + ".kind", "source kind must not be empty"})
	}

	switch {
	case s.Kind == "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{SeverityError, path + ".file.path", "file source requires a non-empty path"})
		}
	case s.Kind == "http":
		u := strings.TrimSpace(s.HTTP.URL)
		if u == "" {
			issues = append(issues, Issue{SeverityError, path + ".http.url", "http source requires a url"})
		} else if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			issues = append(issues, Issue{SeverityError, path + ".http.url", fmt.Sprintf("url %q must use http or https", u)})
		}
		if s.HTTP.InsecureSkipVerify {
			issues = append(issues, Issue{SeverityWarning, path + ".http.insecure_skip_verify", "TLS verification is disabled"})
		}
	case s.IsDB():
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, Issue{SeverityError, path + ".db.dsn", s.Kind + " source requires a dsn"})
		}
		if strings.TrimSpace(s.DB.Table) == "" {
			issues = append(issues, Issue{SeverityError, path + ".db.table", s.Kind + " source requires a table"})
		}
		for k := range s.DB.Columns {
			if !isRequiredColumn(k) {
				issues = append(issues, Issue{SeverityWarning, path + ".db.columns." + k, "mapping for a column the loader never reads"})
			}
		}
	default:
		issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown source kind %q", s.Kind)})
		return issues
	}

	if !s.IsDB() {
		issues = append(issues, validateParser(path+".parser", s.Parser)...)
	}
	return issues
}

func validateParser(path string, p Parser) []Issue {
	var issues []Issue
	if p.Kind != "" && p.Kind != "csv" {
		issues = append(issues, Issue{SeverityError, path + ".kind", fmt.Sprintf("unknown parser kind %q", p.Kind)})
		return issues
	}
	if c := p.Options.String("comma", ","); len([]rune(c)) != 1 {
		issues = append(issues, Issue{SeverityError, path + ".options.comma", "comma must be a single character"})
	}
	switch strings.ToLower(p.Options.String("charset", "utf-8")) {
	case "utf-8", "utf8", "iso-8859-1", "latin1", "windows-1252", "cp1252", "iso-8859-15", "latin9", "windows-1250", "cp1250":
	default:
		issues = append(issues, Issue{SeverityError, path + ".options.charset", "unsupported charset"})
	}
	return issues
}

func validateRanking(r Ranking) []Issue {
	if r.TopK < 0 {
		return []Issue{{SeverityError, "ranking.top_k", "top_k must not be negative"}}
	}
	if r.TopK == 0 {
		return []Issue{{SeverityWarning, "ranking.top_k", fmt.Sprintf("top_k unset; defaulting to %d", dataset.DefaultTopK)}}
	}
	return nil
}

func validateMetrics(m Metrics) []Issue {
	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if m.PushgatewayURL == "" {
			return []Issue{{SeverityWarning, "metrics.pushgateway_url", "pushgateway backend without pushgateway_url; metrics will not be pushed"}}
		}
	case "datadog":
		if m.DatadogAddr == "" {
			return []Issue{{SeverityWarning, "metrics.datadog_addr", "datadog backend without datadog_addr; using 127.0.0.1:8125"}}
		}
	default:
		return []Issue{{SeverityError, "metrics.backend", fmt.Sprintf("unknown metrics backend %q", m.Backend)}}
	}
	return nil
}

func isRequiredColumn(name string) bool {
	for _, c := range dataset.RequiredColumns {
		if c == name {
			return true
		}
	}
	return false
}

func validateServer(s Server) []Issue {
	var issues []Issue
	if s.SessionIdleSeconds < 0 {
		issues = append(issues, Issue{SeverityError, "server.session_idle_seconds", "must not be negative"})
	}
	if s.MaxSessions < 0 {
		issues = append(issues, Issue{SeverityError, "server.max_sessions", "must not be negative"})
	}
	return issues
}

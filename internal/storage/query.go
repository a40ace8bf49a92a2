package storage

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"energydash/internal/dataset"
)

// QuoteFunc quotes one identifier part for a SQL dialect.
type QuoteFunc func(part string) string

// QuoteDouble is the ANSI style used by SQLite and Postgres.
func QuoteDouble(part string) string {
	return `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
}

// QuoteBacktick is the MySQL style.
func QuoteBacktick(part string) string {
	return "`" + strings.ReplaceAll(part, "`", "``") + "`"
}

// QuoteBracket is the SQL Server style.
func QuoteBracket(part string) string {
	return "[" + strings.ReplaceAll(part, "]", "]]") + "]"
}

// QuoteQualified quotes every dot-separated part of name.
func QuoteQualified(q QuoteFunc, name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}

// SelectSQL builds the query reading the three canonical columns from cfg.
func SelectSQL(q QuoteFunc, cfg Config) (string, error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return "", fmt.Errorf("storage: table must not be empty")
	}
	cols := make([]string, len(dataset.RequiredColumns))
	for i, c := range dataset.RequiredColumns {
		cols[i] = q(cfg.Column(c))
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), QuoteQualified(q, cfg.Table)), nil
}

// CellString renders a driver value the way it would appear in a CSV
// extract. NULL becomes "", which the cleaner treats as missing.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return strconv.Itoa(x.Year())
	case fmt.Stringer:
		return x.String()
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil {
			return ""
		}
		return CellString(dv)
	}
	return fmt.Sprint(v)
}

// ScanRows drains rows of exactly three columns into a RawTable with the
// canonical header.
func ScanRows(rows *sql.Rows) (dataset.RawTable, error) {
	defer rows.Close()
	t := dataset.RawTable{Header: append([]string(nil), dataset.RequiredColumns...)}
	for rows.Next() {
		var geo, year, value any
		if err := rows.Scan(&geo, &year, &value); err != nil {
			return dataset.RawTable{}, fmt.Errorf("storage: scan: %w", err)
		}
		t.Rows = append(t.Rows, []string{CellString(geo), CellString(year), CellString(value)})
	}
	if err := rows.Err(); err != nil {
		return dataset.RawTable{}, fmt.Errorf("storage: rows: %w", err)
	}
	return t, nil
}

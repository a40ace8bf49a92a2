// Package dataset holds the typed tables of the dashboard and the pure
// transformations over them: cleaning raw Eurostat-style tables, building
// the country/year index, filtering, the three-way join, the emitter
// ranking, the correlation matrix and the regression trend lines.
//
// Every function returns a fresh value; inputs are never mutated. Nothing in
// this package performs I/O, logs, or keeps state between calls, so a shell
// (HTTP handler, CLI, test) can call it on every parameter change.
package dataset

import (
	"fmt"
	"math"
)

// Canonical raw column names of an SDMX-CSV export.
const (
	ColGeo        = "geo"
	ColTimePeriod = "TIME_PERIOD"
	ColObsValue   = "OBS_VALUE"
)

// RequiredColumns lists the columns every raw table must expose.
var RequiredColumns = []string{ColGeo, ColTimePeriod, ColObsValue}

// Metric names one of the three observation tables.
type Metric string

const (
	Emissions  Metric = "emissions"
	Renewables Metric = "renewables"
	Energy     Metric = "energy"
)

// Metrics is the canonical order of the three datasets.
var Metrics = []Metric{Emissions, Renewables, Energy}

// ParseMetric maps a dataset name to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case Emissions, Renewables, Energy:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// RawTable is a parsed but untyped table: a header row plus string cells.
// Rows may be ragged; missing trailing cells read as "".
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of column name in the header, or -1.
func (t RawTable) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns row r, column c, or "" when the row is short.
func (t RawTable) Cell(r, c int) string {
	row := t.Rows[r]
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// CheckColumns reports ErrDataUnavailable when any required column is absent.
func (t RawTable) CheckColumns() error {
	var missing []string
	for _, c := range RequiredColumns {
		if t.Index(c) < 0 {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns %v", ErrDataUnavailable, missing)
	}
	return nil
}

// Observation is a single (country, year, value) record.
type Observation struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
}

// ObservationTable is the cleaned table for one metric.
type ObservationTable struct {
	Metric Metric        `json:"metric"`
	Rows   []Observation `json:"rows"`
}

// Len returns the number of rows.
func (t ObservationTable) Len() int { return len(t.Rows) }

// YearBounds returns the smallest and largest year in t. ok is false for an
// empty table.
func (t ObservationTable) YearBounds() (lo, hi int, ok bool) {
	if len(t.Rows) == 0 {
		return 0, 0, false
	}
	lo, hi = t.Rows[0].Year, t.Rows[0].Year
	for _, r := range t.Rows[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return lo, hi, true
}

// JoinedRow is one row of the three-way join.
type JoinedRow struct {
	Country    string  `json:"country"`
	Year       int     `json:"year"`
	Emissions  float64 `json:"emissions"`
	Renewables float64 `json:"renewables"`
	Energy     float64 `json:"energy"`
}

// Value returns the column named by m, or NaN for an unknown metric.
func (r JoinedRow) Value(m Metric) float64 {
	switch m {
	case Emissions:
		return r.Emissions
	case Renewables:
		return r.Renewables
	case Energy:
		return r.Energy
	}
	return math.NaN()
}

// JoinedTable is the inner join of the three observation tables.
type JoinedTable []JoinedRow

// Column extracts one numeric column in row order.
func (t JoinedTable) Column(m Metric) []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Value(m)
	}
	return out
}

// RankingRow is one entry of the top-emitters ranking.
type RankingRow struct {
	Country       string  `json:"country"`
	MeanEmissions float64 `json:"mean_emissions"`
}

// RankingTable is sorted by MeanEmissions descending.
type RankingTable []RankingRow

// YearRange is an inclusive [From, To] interval of years.
type YearRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether y lies within the range.
func (r YearRange) Contains(y int) bool { return r.From <= y && y <= r.To }

// Overlaps reports whether r and o share at least one year.
func (r YearRange) Overlaps(o YearRange) bool { return r.From <= o.To && o.From <= r.To }

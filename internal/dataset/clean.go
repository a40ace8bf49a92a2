package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanStats summarizes what Clean dropped.
type CleanStats struct {
	Input      int `json:"input"`      // raw rows seen
	Kept       int `json:"kept"`       // rows in the cleaned table
	Nulls      int `json:"nulls"`      // rows dropped for a null country or value
	Unparsable int `json:"unparsable"` // rows dropped for a non-numeric value
}

// Dropped is the total number of rows removed.
func (s CleanStats) Dropped() int { return s.Nulls + s.Unparsable }

// naTokens are the cell values read as missing: pandas' default NA set plus
// the Eurostat ":" marker.
var naTokens = map[string]struct{}{
	"": {}, ":": {},
	"NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {},
	"#NA": {}, "1.#IND": {}, "1.#QNAN": {}, "-1.#IND": {}, "-1.#QNAN": {},
}

// IsNull reports whether a raw cell counts as missing.
func IsNull(cell string) bool {
	_, ok := naTokens[strings.TrimSpace(cell)]
	return ok
}

// Clean turns a raw table into the observation table for metric.
//
// Columns geo, TIME_PERIOD and OBS_VALUE become country, year and value; all
// other columns are discarded. Years are coerced first: a year that is not an
// integer (blank included) rejects the whole table with ErrInvalidYear. Rows
// with a null country or value are then dropped, as are values that do not
// parse as a finite number. Input order is preserved.
func Clean(raw RawTable, metric Metric) (ObservationTable, CleanStats, error) {
	out := ObservationTable{Metric: metric}
	stats := CleanStats{Input: len(raw.Rows)}

	if err := raw.CheckColumns(); err != nil {
		return out, stats, fmt.Errorf("%s: %w", metric, err)
	}
	geo := raw.Index(ColGeo)
	period := raw.Index(ColTimePeriod)
	obs := raw.Index(ColObsValue)

	years := make([]int, len(raw.Rows))
	for i := range raw.Rows {
		y, err := ParseYear(raw.Cell(i, period))
		if err != nil {
			return out, stats, fmt.Errorf("%s: row %d: %w", metric, i+1, err)
		}
		years[i] = y
	}

	out.Rows = make([]Observation, 0, len(raw.Rows))
	for i := range raw.Rows {
		country := strings.TrimSpace(raw.Cell(i, geo))
		cell := raw.Cell(i, obs)
		if IsNull(country) || IsNull(cell) {
			stats.Nulls++
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			stats.Unparsable++
			continue
		}
		out.Rows = append(out.Rows, Observation{Country: country, Year: years[i], Value: v})
	}
	stats.Kept = len(out.Rows)
	return out, stats, nil
}

// ParseYear coerces a TIME_PERIOD cell to an integer year. Integral decimals
// such as "2010.0" are accepted.
func ParseYear(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, cell)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidYear, cell)
	}
	return int(f), nil
}

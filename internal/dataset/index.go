package dataset

import (
	"fmt"
	"sort"
)

// AvailableCountries returns the distinct countries of t in ascending
// byte-wise order.
func AvailableCountries(t ObservationTable) []string {
	seen := make(map[string]struct{}, len(t.Rows))
	out := make([]string, 0)
	for _, r := range t.Rows {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// CommonYearRange returns the tightest interval covered by every table: the
// largest of the per-table minimum years and the smallest of the maximum
// years. It fails with ErrEmptyRange when a table is empty or the coverages
// do not overlap.
func CommonYearRange(tables ...ObservationTable) (YearRange, error) {
	if len(tables) == 0 {
		return YearRange{}, fmt.Errorf("%w: no tables", ErrEmptyRange)
	}
	var r YearRange
	for i, t := range tables {
		lo, hi, ok := t.YearBounds()
		if !ok {
			return YearRange{}, fmt.Errorf("%w: %s table is empty", ErrEmptyRange, t.Metric)
		}
		if i == 0 || lo > r.From {
			r.From = lo
		}
		if i == 0 || hi < r.To {
			r.To = hi
		}
	}
	if r.From > r.To {
		return r, fmt.Errorf("%w: year ranges do not overlap (%d > %d)", ErrEmptyRange, r.From, r.To)
	}
	return r, nil
}

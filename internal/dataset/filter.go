package dataset

// Filter returns the rows of t whose country equals country and whose year
// lies in [from, to]. No match yields an empty table, not an error.
func Filter(t ObservationTable, country string, from, to int) ObservationTable {
	out := ObservationTable{Metric: t.Metric, Rows: make([]Observation, 0)}
	for _, r := range t.Rows {
		if r.Country == country && from <= r.Year && r.Year <= to {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// FilterRange is Filter with a YearRange.
func FilterRange(t ObservationTable, country string, yr YearRange) ObservationTable {
	return Filter(t, country, yr.From, yr.To)
}

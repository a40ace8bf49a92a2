package dataset

import "fmt"

type joinKey struct {
	country string
	year    int
}

// InnerJoin joins the three observation tables on exact (country, year)
// equality. A row exists only where all three tables have the key; duplicated
// keys yield every combination of matching rows.
//
// Tables are placed by their Metric, not by argument position, so any
// permutation of the same three tables gives an identical result. Rows follow
// the emissions table order, then renewables, then energy.
func InnerJoin(a, b, c ObservationTable) (JoinedTable, error) {
	byMetric := make(map[Metric]ObservationTable, 3)
	for _, t := range []ObservationTable{a, b, c} {
		if _, err := ParseMetric(string(t.Metric)); err != nil {
			return nil, fmt.Errorf("join: %w", err)
		}
		if _, dup := byMetric[t.Metric]; dup {
			return nil, fmt.Errorf("join: %s table given twice", t.Metric)
		}
		byMetric[t.Metric] = t
	}

	emi := byMetric[Emissions]
	ren := keyIndex(byMetric[Renewables])
	ene := keyIndex(byMetric[Energy])

	out := make(JoinedTable, 0)
	for _, e := range emi.Rows {
		k := joinKey{e.Country, e.Year}
		rs, ok := ren[k]
		if !ok {
			continue
		}
		ns, ok := ene[k]
		if !ok {
			continue
		}
		for _, r := range rs {
			for _, n := range ns {
				out = append(out, JoinedRow{
					Country:    e.Country,
					Year:       e.Year,
					Emissions:  e.Value,
					Renewables: r,
					Energy:     n,
				})
			}
		}
	}
	return out, nil
}

// keyIndex maps each key to its values in table order.
func keyIndex(t ObservationTable) map[joinKey][]float64 {
	m := make(map[joinKey][]float64, len(t.Rows))
	for _, r := range t.Rows {
		k := joinKey{r.Country, r.Year}
		m[k] = append(m[k], r.Value)
	}
	return m
}

package dataset

import "testing"

func obs(metric Metric, rows ...Observation) ObservationTable {
	return ObservationTable{Metric: metric, Rows: rows}
}

func series(metric Metric, country string, firstYear int, values ...float64) ObservationTable {
	t := ObservationTable{Metric: metric}
	for i, v := range values {
		t.Rows = append(t.Rows, Observation{Country: country, Year: firstYear + i, Value: v})
	}
	return t
}

func raw(rows ...[]string) RawTable {
	return RawTable{Header: []string{"DATAFLOW", ColGeo, ColTimePeriod, ColObsValue, "OBS_FLAG"}, Rows: rows}
}

func mustJoin(tb testing.TB, a, b, c ObservationTable) JoinedTable {
	tb.Helper()
	j, err := InnerJoin(a, b, c)
	if err != nil {
		tb.Fatalf("InnerJoin: %v", err)
	}
	return j
}

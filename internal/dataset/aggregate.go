package dataset

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultTopK is the ranking length used when k <= 0.
const DefaultTopK = 10

// TopEmitters ranks countries by their mean emissions over every row of t,
// regardless of any active filter. Ties are broken by country ascending.
func TopEmitters(t ObservationTable, k int) RankingTable {
	if k <= 0 {
		k = DefaultTopK
	}

	// Running means stay finite where a plain sum of large values would
	// overflow.
	type acc struct {
		mean float64
		n    int
	}
	groups := make(map[string]*acc)
	order := make([]string, 0)
	for _, r := range t.Rows {
		g, ok := groups[r.Country]
		if !ok {
			g = &acc{}
			groups[r.Country] = g
			order = append(order, r.Country)
		}
		g.n++
		g.mean += (r.Value - g.mean) / float64(g.n)
	}

	out := make(RankingTable, 0, len(order))
	for _, c := range order {
		g := groups[c]
		out = append(out, RankingRow{Country: c, MeanEmissions: g.mean})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MeanEmissions != out[j].MeanEmissions {
			return out[i].MeanEmissions > out[j].MeanEmissions
		}
		return out[i].Country < out[j].Country
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// CorrelationMatrix holds pairwise Pearson coefficients. NaN marks an
// undefined cell (fewer than two rows, or a constant column).
type CorrelationMatrix struct {
	Columns []Metric
	Values  [][]float64
	Rows    int // observations the matrix was computed from
}

// Defined reports whether at least one coefficient is defined.
func (m CorrelationMatrix) Defined() bool {
	for _, row := range m.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// At returns the coefficient for the pair (a, b), or NaN when either column
// is not part of the matrix.
func (m CorrelationMatrix) At(a, b Metric) float64 {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

// MarshalJSON encodes undefined cells as null.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	vals := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		vals[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				vals[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []Metric     `json:"columns"`
		Values  [][]*float64 `json:"values"`
		Rows    int          `json:"rows"`
		Defined bool         `json:"defined"`
	}{m.Columns, vals, m.Rows, m.Defined()})
}

// Correlate computes the Pearson correlation matrix of the given columns of
// t (all three metrics when none are named). The diagonal is exactly 1 for
// every non-constant column and the matrix is symmetric.
func Correlate(t JoinedTable, columns ...Metric) CorrelationMatrix {
	if len(columns) == 0 {
		columns = Metrics
	}
	n := len(columns)
	m := CorrelationMatrix{
		Columns: append([]Metric(nil), columns...),
		Values:  make([][]float64, n),
		Rows:    len(t),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		for j := range m.Values[i] {
			m.Values[i][j] = math.NaN()
		}
	}
	if len(t) < 2 {
		return m
	}

	cols := make([][]float64, n)
	usable := make([]bool, n)
	for i, c := range columns {
		if !known(c) {
			continue
		}
		cols[i] = t.Column(c)
		usable[i] = !constant(cols[i])
	}
	for i := 0; i < n; i++ {
		if !usable[i] {
			continue
		}
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			if !usable[j] {
				continue
			}
			r := stat.Correlation(cols[i], cols[j], nil)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// Trend is the least-squares line y = Intercept + Slope*x.
type Trend struct {
	X         Metric  `json:"x"`
	Y         Metric  `json:"y"`
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	Defined   bool    `json:"defined"`
}

// At evaluates the line at x.
func (tr Trend) At(x float64) float64 { return tr.Intercept + tr.Slope*x }

// FitTrend fits y against x over the joined rows. The trend is undefined with
// fewer than two rows or a constant x column.
func FitTrend(t JoinedTable, x, y Metric) Trend {
	tr := Trend{X: x, Y: y}
	if len(t) < 2 || !known(x) || !known(y) {
		return tr
	}
	xs, ys := t.Column(x), t.Column(y)
	if constant(xs) {
		return tr
	}
	a, b := stat.LinearRegression(xs, ys, nil, false)
	if !finite(a) || !finite(b) {
		return tr
	}
	tr.Intercept, tr.Slope, tr.Defined = a, b, true
	return tr
}

func known(m Metric) bool {
	_, err := ParseMetric(string(m))
	return err == nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

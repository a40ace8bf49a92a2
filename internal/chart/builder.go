package chart

import (
	"fmt"
	"math"

	"energydash/internal/dashboard"
	"energydash/internal/dataset"
)

// Options customise the page text.
type Options struct {
	Title    string
	Subtitle string
	Caption  string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Energy & Emissions Dashboard"
	}
	if o.Subtitle == "" {
		o.Subtitle = "Understanding the relationship between energy use, renewables, and CO₂ emissions"
	}
	if o.Caption == "" {
		o.Caption = "Source: Eurostat"
	}
	return o
}

// Build lays out every chart for v. Empty tables give charts without points.
func Build(v dashboard.View, opts Options) Dashboard {
	opts = opts.withDefaults()
	return Dashboard{
		Title:    opts.Title,
		Subtitle: opts.Subtitle,
		Notice:   v.Notice,
		Caption:  opts.Caption,
		Sections: []Section{
			{
				Title: fmt.Sprintf("%s Trends", v.Selection.Country),
				Charts: []Config{
					TimeSeries("emissions_ts", "CO₂ Emissions", "Emissions", "", v.Emissions),
					TimeSeries("renewables_ts", "Renewable Energy Share", "Renewables (%)", "green", v.Renewables),
					TimeSeries("energy_ts", "Energy Consumption", "Energy Use", "orange", v.Energy),
				},
			},
			{
				Title: "Energy–Emissions Relationships",
				Charts: []Config{
					ScatterTrend("renewables_vs_emissions", "Renewables vs Emissions",
						"Renewables (%)", "Emissions", "viridis", v.Joined, v.RenewablesTrend),
					ScatterTrend("energy_vs_emissions", "Energy Consumption vs Emissions",
						"Energy Consumption", "Emissions", "plasma", v.Joined, v.EnergyTrend),
				},
			},
			{
				Title:  "Top Emitting Countries",
				Charts: []Config{Ranking(v.Ranking)},
			},
			{
				Title:  "Correlation Overview",
				Charts: []Config{CorrelationHeatmap(v.Correlation)},
			},
		},
	}
}

// TimeSeries plots one observation table against year.
func TimeSeries(id, title, yAxis, color string, t dataset.ObservationTable) Config {
	s := Series{Name: string(t.Metric), Color: color, Points: make([]Point, 0, t.Len())}
	for _, r := range t.Rows {
		s.Points = append(s.Points, Point{X: float64(r.Year), Y: r.Value})
	}
	return Config{
		ID:       id,
		Kind:     Line,
		Title:    title,
		XAxis:    "year",
		YAxis:    yAxis,
		Series:   []Series{s},
		ShowGrid: true,
	}
}

// ScatterTrend plots tr.Y against tr.X, hued by year, plus the fitted line
// across the observed x span when the trend is defined.
func ScatterTrend(id, title, xAxis, yAxis, palette string, j dataset.JoinedTable, tr dataset.Trend) Config {
	pts := Series{Name: "observations", HueBy: "year", Points: make([]Point, 0, len(j))}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range j {
		x := r.Value(tr.X)
		pts.Points = append(pts.Points, Point{X: x, Y: r.Value(tr.Y), Hue: float64(r.Year)})
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	c := Config{
		ID:         id,
		Kind:       Scatter,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Palette:    palette,
		Series:     []Series{pts},
		ShowLegend: true,
		ShowGrid:   true,
	}
	if tr.Defined {
		c.Series = append(c.Series, Series{
			Name:   "trend",
			Color:  "red",
			Points: []Point{{X: lo, Y: tr.At(lo)}, {X: hi, Y: tr.At(hi)}},
		})
	}
	return c
}

// Ranking is the bar chart of mean emissions per country.
func Ranking(r dataset.RankingTable) Config {
	s := Series{Name: "mean_emissions", Points: make([]Point, 0, len(r))}
	for i, row := range r {
		s.Points = append(s.Points, Point{X: float64(i), Y: row.MeanEmissions, Label: row.Country})
	}
	return Config{
		ID:     "top_emitters",
		Kind:   Bar,
		Title:  "Top Emitting Countries",
		XAxis:  "country",
		YAxis:  "Average CO₂ Emissions",
		Series: []Series{s},
	}
}

// CorrelationHeatmap is the annotated coolwarm heatmap of m.
func CorrelationHeatmap(m dataset.CorrelationMatrix) Config {
	c := Config{
		ID:       "correlation",
		Kind:     Heatmap,
		Title:    "Correlation Overview",
		Palette:  "coolwarm",
		Annotate: true,
		Series:   []Series{},
	}
	for _, col := range m.Columns {
		c.Labels = append(c.Labels, string(col))
	}
	for i, row := range m.Values {
		for j, v := range row {
			cell := Cell{Row: i, Col: j}
			if !math.IsNaN(v) {
				val := v
				cell.Value = &val
			}
			c.Cells = append(c.Cells, cell)
		}
	}
	return c
}

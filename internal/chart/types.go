// Package chart shapes a dashboard View into presenter-ready chart
// descriptions. It draws nothing: a presenter (web page, notebook, PNG
// renderer) receives series of points plus labels and colours and decides
// how to render them.
package chart

// Kind selects how a chart is drawn.
type Kind string

const (
	Line    Kind = "line"
	Scatter Kind = "scatter"
	Bar     Kind = "bar"
	Heatmap Kind = "heatmap"
)

// Config is a single chart.
type Config struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	Palette    string   `json:"palette,omitempty"` // colour map for hue or heat values
	ShowLegend bool     `json:"showLegend"`
	ShowGrid   bool     `json:"showGrid"`

	// Cells is set for heatmaps only.
	Cells    []Cell   `json:"cells,omitempty"`
	Labels   []string `json:"labels,omitempty"`
	Annotate bool     `json:"annotate,omitempty"`
}

// Series is one data series.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
	// HueBy names the point field driving colour ("year") when Palette is set.
	HueBy string `json:"hueBy,omitempty"`
}

// Point is a data point. Label carries the category for bar charts.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
	Hue   float64 `json:"hue,omitempty"`
}

// Cell is one heatmap cell. Value is nil when undefined.
type Cell struct {
	Row   int      `json:"row"`
	Col   int      `json:"col"`
	Value *float64 `json:"value"`
}

// Section groups charts under a heading, as laid out on the page.
type Section struct {
	Title  string   `json:"title"`
	Charts []Config `json:"charts"`
}

// Dashboard is the complete set of charts for one view.
type Dashboard struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Notice   string    `json:"notice,omitempty"`
	Sections []Section `json:"sections"`
	Caption  string    `json:"caption"`
}

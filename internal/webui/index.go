package webui

import (
	"fmt"
	"html/template"
	"math"
	"net/http"

	"go.uber.org/zap"

	"energydash/internal/dashboard"
	"energydash/internal/dataset"
)

var funcs = template.FuncMap{
	"num": func(v float64) string {
		if math.IsNaN(v) {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", v)
	},
	"corr": func(m dataset.CorrelationMatrix, a, b dataset.Metric) float64 { return m.At(a, b) },
}

type indexData struct {
	Title     string
	Countries []string
	Error     string
	View      dashboard.View
	Metrics   []dataset.Metric
}

// handleIndex renders the page. An invalid selection shows the error and
// falls back to the default view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Title:     s.cfg.Chart.Title,
		Countries: s.base.Countries,
		Metrics:   dataset.Metrics,
	}
	if data.Title == "" {
		data.Title = "Energy & Emissions Dashboard"
	}

	sel, err := s.selectionFromQuery(r)
	if err != nil {
		data.Error = err.Error()
		sel, _ = s.base.DefaultSelection()
	}
	data.View = dashboard.Compute(s.base, sel)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("template error", zap.Error(err))
	}
}

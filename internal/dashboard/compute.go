package dashboard

import (
	"energydash/internal/dataset"
)

// View is everything a presenter needs for one selection.
type View struct {
	Selection Selection         `json:"selection"`
	Years     dataset.YearRange `json:"years"`
	Notice    string            `json:"notice,omitempty"`

	Emissions  dataset.ObservationTable `json:"emissions"`
	Renewables dataset.ObservationTable `json:"renewables"`
	Energy     dataset.ObservationTable `json:"energy"`

	Joined      dataset.JoinedTable       `json:"joined"`
	Ranking     dataset.RankingTable      `json:"ranking"`
	Correlation dataset.CorrelationMatrix `json:"correlation"`

	RenewablesTrend dataset.Trend `json:"renewables_trend"`
	EnergyTrend     dataset.Trend `json:"energy_trend"`
}

// Empty reports whether the selection matched no joined row.
func (v View) Empty() bool { return len(v.Joined) == 0 }

// Compute derives the view for sel. It does not validate sel; callers that
// take user input go through Base.Normalize or Session.Apply first.
func Compute(b *Base, sel Selection) View {
	v := View{
		Selection:  sel,
		Years:      b.Years,
		Emissions:  dataset.FilterRange(b.Emissions, sel.Country, sel.Range()),
		Renewables: dataset.FilterRange(b.Renewables, sel.Country, sel.Range()),
		Energy:     dataset.FilterRange(b.Energy, sel.Country, sel.Range()),
		Ranking:    b.Ranking,
	}
	if b.RangeErr != nil {
		v.Notice = b.RangeErr.Error()
	}

	// Metrics are fixed by Base, so the join cannot fail.
	v.Joined, _ = dataset.InnerJoin(v.Emissions, v.Renewables, v.Energy)
	v.Correlation = dataset.Correlate(v.Joined, dataset.Metrics...)
	v.RenewablesTrend = dataset.FitTrend(v.Joined, dataset.Renewables, dataset.Emissions)
	v.EnergyTrend = dataset.FitTrend(v.Joined, dataset.Energy, dataset.Emissions)

	if v.Notice == "" && v.Empty() {
		v.Notice = "no observations for the selected country and years"
	}
	return v
}

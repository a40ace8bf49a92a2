// Package dashboard turns cleaned tables plus a user selection into the
// derived views of the energy/emissions dashboard.
//
// Base is built once per load and never mutated afterwards, so it can be
// shared by every request. Compute is a pure function of (Base, Selection).
// Session keeps one user's last valid selection.
package dashboard

import (
	"errors"
	"fmt"

	"energydash/internal/dataset"
)

// Base holds the cleaned observation tables and their index.
type Base struct {
	Emissions  dataset.ObservationTable
	Renewables dataset.ObservationTable
	Energy     dataset.ObservationTable

	// Countries are the selectable countries, taken from the emissions table.
	Countries []string
	// Years is the common year range of the three tables. Only meaningful
	// when RangeErr is nil.
	Years dataset.YearRange
	// RangeErr is dataset.ErrEmptyRange (wrapped) when the tables share no
	// year; the dashboard then shows a "no common data" placeholder.
	RangeErr error

	// Ranking is computed once: it ignores every filter.
	Ranking dataset.RankingTable
	TopK    int
}

// NewBase indexes the three cleaned tables. A missing year overlap is not an
// error here; it is kept in RangeErr.
func NewBase(emi, ren, ene dataset.ObservationTable, topK int) (*Base, error) {
	for want, t := range map[dataset.Metric]dataset.ObservationTable{
		dataset.Emissions: emi, dataset.Renewables: ren, dataset.Energy: ene,
	} {
		if t.Metric != want {
			return nil, fmt.Errorf("dashboard: %s slot holds %q table", want, t.Metric)
		}
	}
	if topK <= 0 {
		topK = dataset.DefaultTopK
	}
	b := &Base{
		Emissions:  emi,
		Renewables: ren,
		Energy:     ene,
		Countries:  dataset.AvailableCountries(emi),
		TopK:       topK,
		Ranking:    dataset.TopEmitters(emi, topK),
	}
	b.Years, b.RangeErr = dataset.CommonYearRange(emi, ren, ene)
	return b, nil
}

// Table returns the observation table for m.
func (b *Base) Table(m dataset.Metric) dataset.ObservationTable {
	switch m {
	case dataset.Emissions:
		return b.Emissions
	case dataset.Renewables:
		return b.Renewables
	default:
		return b.Energy
	}
}

// HasCountry reports whether c is selectable.
func (b *Base) HasCountry(c string) bool {
	for _, x := range b.Countries {
		if x == c {
			return true
		}
	}
	return false
}

// Selection is the user-facing filter: one country and an inclusive range.
type Selection struct {
	Country string `json:"country"`
	From    int    `json:"from"`
	To      int    `json:"to"`
}

// Range returns the selection's year range.
func (s Selection) Range() dataset.YearRange { return dataset.YearRange{From: s.From, To: s.To} }

// DefaultSelection mirrors the initial page state: the first country and the
// full common year range. ok is false when there is nothing to select.
func (b *Base) DefaultSelection() (Selection, bool) {
	if len(b.Countries) == 0 || b.RangeErr != nil {
		return Selection{}, false
	}
	return Selection{Country: b.Countries[0], From: b.Years.From, To: b.Years.To}, true
}

// Normalize validates sel against the index.
//
// The country must be available and From must not exceed To, otherwise
// ErrInvalidSelection is returned. A range overlapping the common year range
// is clamped into it. A range entirely outside it is passed through as-is so
// the views come out empty.
func (b *Base) Normalize(sel Selection) (Selection, error) {
	if !b.HasCountry(sel.Country) {
		return sel, fmt.Errorf("%w: country %q is not available", dataset.ErrInvalidSelection, sel.Country)
	}
	if sel.From > sel.To {
		return sel, fmt.Errorf("%w: year range %d..%d is inverted", dataset.ErrInvalidSelection, sel.From, sel.To)
	}
	if b.RangeErr != nil || !sel.Range().Overlaps(b.Years) {
		return sel, nil
	}
	if sel.From < b.Years.From {
		sel.From = b.Years.From
	}
	if sel.To > b.Years.To {
		sel.To = b.Years.To
	}
	return sel, nil
}

// IsEmptyRange reports whether err means the tables share no year.
func IsEmptyRange(err error) bool { return errors.Is(err, dataset.ErrEmptyRange) }

package webui

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energydash/internal/dashboard"
	"energydash/internal/dataset"
)

func TestRespondJSON_EncodeFailureIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]float64{"v": math.Inf(1)})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("body = %s", rec.Body)
	}
}

func TestRanking_HugeEmissionsEncode(t *testing.T) {
	obs := func(m dataset.Metric, v float64) dataset.ObservationTable {
		return table(m,
			dataset.Observation{Country: "Germany", Year: 2010, Value: v},
			dataset.Observation{Country: "Germany", Year: 2011, Value: v},
		)
	}
	b, err := dashboard.NewBase(obs(dataset.Emissions, 1e308), obs(dataset.Renewables, 1), obs(dataset.Energy, 1), 10)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	s := NewServer(Config{}, b, nil)

	rec := do(t, s, http.MethodGet, "/api/v1/ranking", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ranking = %d %s", rec.Code, rec.Body)
	}
	var ranking struct{ Ranking dataset.RankingTable }
	decode(t, rec, &ranking)
	if len(ranking.Ranking) != 1 || ranking.Ranking[0].MeanEmissions != 1e308 {
		t.Fatalf("ranking = %+v", ranking)
	}
}

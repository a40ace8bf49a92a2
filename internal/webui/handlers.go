package webui

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"energydash/internal/chart"
	"energydash/internal/dashboard"
	"energydash/internal/dataset"
)

// errBadRequest marks malformed query parameters (400, not 422).
var errBadRequest = errors.New("bad request")

// selectionFromQuery reads country/from/to, filling gaps from the default
// selection, and normalizes the result. With no default (no countries or no
// common years) and no explicit country, the zero selection is returned
// unvalidated so the view carries the notice.
func (s *Server) selectionFromQuery(r *http.Request) (dashboard.Selection, error) {
	q := r.URL.Query()
	sel, ok := s.base.DefaultSelection()
	country := strings.TrimSpace(q.Get("country"))
	if country != "" {
		sel.Country = country
	}
	for key, dst := range map[string]*int{"from": &sel.From, "to": &sel.To} {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return sel, fmt.Errorf("%w: %s must be an integer year", errBadRequest, key)
		}
		*dst = n
	}
	if !ok && country == "" {
		return sel, nil
	}
	return s.base.Normalize(sel)
}

// writeSelectionError maps selection errors to status codes.
func writeSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		respondError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dataset.ErrInvalidSelection):
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		respondError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":    "ok",
		"countries": len(s.base.Countries),
		"sessions":  s.sessions.Len(),
	}
	if s.base.RangeErr != nil {
		body["notice"] = s.base.RangeErr.Error()
	} else {
		body["years"] = s.base.Years
	}
	respondJSON(w, http.StatusOK, body)
}

func (s *Server) handleCountries(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"countries": s.base.Countries})
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	if s.base.RangeErr != nil {
		respondJSON(w, http.StatusOK, map[string]any{"available": false, "notice": s.base.RangeErr.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"available": true, "from": s.base.Years.From, "to": s.base.Years.To})
}

func (s *Server) handleRanking(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"top_k": s.base.TopK, "ranking": s.base.Ranking})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectionFromQuery(r)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard.Compute(s.base, sel))
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selectionFromQuery(r)
	if err != nil {
		writeSelectionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, chart.Build(dashboard.Compute(s.base, sel), s.cfg.Chart))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	s.log.Info("session created", zap.String("session", sess.ID))
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.sessions.Get(id)
	if !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session": sess,
		"view":    dashboard.Compute(s.base, sess.Selection),
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.sessions.Get(id); !ok {
		respondError(w, "session not found", http.StatusNotFound)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateSelection(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var sel dashboard.Selection
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		respondError(w, "invalid selection body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.sessions.Update(id, sel)
	switch {
	case errors.Is(err, dashboard.ErrSessionNotFound):
		respondError(w, "session not found", http.StatusNotFound)
	case errors.Is(err, dataset.ErrInvalidSelection):
		s.log.Info("selection rejected",
			zap.String("session", id),
			zap.String("country", sel.Country),
			zap.Int("from", sel.From),
			zap.Int("to", sel.To),
		)
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     err.Error(),
			"selection": sess.Selection,
		})
	case err != nil:
		respondError(w, err.Error(), http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, map[string]any{
			"session": sess,
			"view":    dashboard.Compute(s.base, sess.Selection),
		})
	}
}

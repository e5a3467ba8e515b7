package adapthttp

import (
	"net/http"

	"fitcoach/internal/domain"
)

func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		date := r.URL.Query().Get("date")
		res, err := s.weight.GetTodaysWeight(ctx, date)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"date":     date,
			"weight":   res.Weight,
			"unit":     res.Unit,
			"source":   res.Source,
			"isLocked": res.IsLocked,
			"display":  domain.FormatWeight(res.Weight, res.Unit),
		})

	case http.MethodPut:
		var body struct {
			Date   string  `json:"date"`
			Weight float64 `json:"weight"`
			Unit   string  `json:"unit"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeServiceError(w, err)
			return
		}
		unit, err := domain.ParseWeightUnit(body.Unit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if err := s.weight.RecordTodaysWeight(ctx, body.Date, body.Weight, unit); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (s *Server) handleWeightLogged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	logged, err := s.weight.IsTodaysWeightLogged(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logged": logged})
}

func (s *Server) handleWeightRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	limit := min(intQuery(r, "limit", 14), 366)
	items, err := s.weight.ListRecent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []domain.DailyWeightEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

package adapthttp

import (
	"net/http"

	"fitcoach/internal/app"
	"fitcoach/internal/domain"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	days := min(intQuery(r, "days", 90), app.MaxChartDays)
	unit := domain.UnitKG
	if raw := q.Get("unit"); raw != "" {
		var err error
		if unit, err = domain.ParseWeightUnit(raw); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	points, err := s.charts.GetDaily(r.Context(), q.Get("date"), days, unit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"unit":  unit,
		"date":  q.Get("date"),
		"items": points,
	})
}

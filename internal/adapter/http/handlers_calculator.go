package adapthttp

import (
	"net/http"

	"fitcoach/internal/domain"
)

func (s *Server) handleCalculatorLogged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	category, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	logged, err := s.calc.IsTodaysCategoryLogged(r.Context(), q.Get("date"), category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "logged": logged})
}

func (s *Server) handleCalculatorSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var body struct {
		Date     string  `json:"date"`
		Category string  `json:"category"`
		Value    float64 `json:"value"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeServiceError(w, err)
		return
	}
	sess, err := s.calc.LogSession(r.Context(), body.Date, domain.CalculatorCategory(body.Category), body.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleCalculatorBMI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var body struct {
		Date string `json:"date"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := s.calc.CalculateBMI(r.Context(), body.Date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package adapthttp

import (
	"net/http"

	"fitcoach/internal/domain"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.profile.GetProfile(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodPut:
		var body struct {
			Weight   float64 `json:"weight"`
			HeightCm float64 `json:"heightCm"`
			Unit     string  `json:"unit"`
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
		p, err := s.profile.UpdateProfile(r.Context(), domain.UserBodyProfile{Weight: body.Weight, HeightCm: body.HeightCm, Unit: unit})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

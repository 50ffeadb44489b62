package plates

import (
	"encoding/json"
	"log"
	"net/http"

	"AquaTrace/internal/calclog"
)

type Handler struct{}

type request struct {
	Family  BoundaryFamily `json:"family"`
	Ratio   float64        `json:"ratio"`
	QDesign float64        `json:"q_design_knm2"`
	SpanA   float64        `json:"span_a_m"`
}

type response struct {
	Moments MomentSet     `json:"moments"`
	Step    *calclog.Step `json:"step"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	moments, step, err := Moments(req.Family, req.Ratio, req.QDesign, req.SpanA)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response{Moments: moments, Step: step}); err != nil {
		log.Printf("plates: encode response: %v", err)
	}
}

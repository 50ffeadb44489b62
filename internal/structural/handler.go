package structural

import (
	"encoding/json"
	"net/http"

	"AquaTrace/internal/calclog"
)

type Handler struct{}

type wallResponse struct {
	Result  WallDesignResult `json:"result"`
	Log     *calclog.Log     `json:"log"`
	Summary calclog.Summary  `json:"summary"`
}

func (h *Handler) CalcWall(w http.ResponseWriter, r *http.Request) {
	var input WallDesignInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, logRec, err := DesignWall(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wallResponse{Result: res, Log: logRec, Summary: logRec.Summarize()})
}

type stabilityResponse struct {
	Result  StabilityResult `json:"result"`
	Log     *calclog.Log    `json:"log"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) CalcStability(w http.ResponseWriter, r *http.Request) {
	var input StabilityInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, logRec, err := CheckStability(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stabilityResponse{Result: res, Log: logRec, Summary: logRec.Summarize()})
}

package optimizer

import (
	"encoding/json"
	"net/http"

	"AquaTrace/internal/calclog"
)

type Handler struct{}

type response struct {
	Result  Result          `json:"result"`
	Log     *calclog.Log    `json:"log"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, logRec, err := Optimize(input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response{Result: res, Log: logRec, Summary: logRec.Summarize()})
}

package tankdesign

import (
	"encoding/json"
	"log"
	"net/http"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/safety"
)

type Handler struct {
	Service *safety.Service
}

func NewHandler(svc *safety.Service) *Handler {
	return &Handler{Service: svc}
}

type response struct {
	Result  Result          `json:"result"`
	Log     *calclog.Log    `json:"log"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, logRec, err := Design(in, h.Service)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response{Result: res, Log: logRec, Summary: logRec.Summarize()}); err != nil {
		log.Printf("tankdesign: encode response: %v", err)
	}
}

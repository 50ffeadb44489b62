package crackwidth

import (
	"encoding/json"
	"log"
	"net/http"

	"AquaTrace/internal/calclog"
)

type Handler struct{}

type checkResponse struct {
	Result  Result          `json:"result"`
	Log     *calclog.Log    `json:"log"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, logRec, err := Check(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(checkResponse{Result: res, Log: logRec, Summary: logRec.Summarize()}); err != nil {
		log.Printf("crackwidth: encode response: %v", err)
	}
}

type designResponse struct {
	Result  DesignResult    `json:"result"`
	Log     *calclog.Log    `json:"log"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) Design(w http.ResponseWriter, r *http.Request) {
	var in DesignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, logRec, err := DesignForCrackControl(in)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(designResponse{Result: res, Log: logRec, Summary: logRec.Summarize()}); err != nil {
		log.Printf("crackwidth: encode response: %v", err)
	}
}

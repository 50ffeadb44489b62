package importer

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct{}

func (h *Handler) PipeFlow(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	batch, err := PipeFlowBatch(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(batch); err != nil {
		log.Printf("importer: encode response: %v", err)
	}
}

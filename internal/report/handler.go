package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"AquaTrace/internal/calclog"
)

type Handler struct{}

type request struct {
	Meta Meta         `json:"meta"`
	Log  *calclog.Log `json:"log"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Log == nil {
		http.Error(w, "calculation log required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"calculation_report.pdf\"")
	if err := Write(w, req.Meta, req.Log); err != nil {
		w.Header().Del("Content-Type")
		w.Header().Del("Content-Disposition")
		if errors.Is(err, ErrExportBlocked) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "report generation error", http.StatusInternalServerError)
	}
}

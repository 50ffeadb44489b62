package safety

import (
	"encoding/json"
	"log"
	"net/http"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/repo"
)

// Handler exposes the safety layer to the approval workflow UI. Logs
// travel in the request: the engine keeps no log store. Audit, when
// set, persists applied overrides and pending tickets.
type Handler struct {
	Service *Service
	Audit   repo.Repository
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var logRec calclog.Log
	if err := json.NewDecoder(r.Body).Decode(&logRec); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res := h.Service.CheckCalculationLog(&logRec)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type overrideRequest struct {
	Log          calclog.Log `json:"log"`
	ViolationID  string      `json:"violation_id"`
	Reason       string      `json:"reason"`
	ApproverID   string      `json:"approver_id"`
	ApproverName string      `json:"approver_name"`
	ReferenceDoc string      `json:"reference_doc"`
}

type overrideResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Record  *OverrideRecord `json:"record,omitempty"`
	Log     *calclog.Log    `json:"log,omitempty"`
	Summary calclog.Summary `json:"summary"`
}

func (h *Handler) Override(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	rec, err := h.Service.RequestOverride(&req.Log, req.ViolationID, req.Reason, req.ApproverID, req.ApproverName, req.ReferenceDoc)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(overrideResponse{Success: false, Message: err.Error(), Summary: req.Log.Summarize()})
		return
	}
	if h.Audit != nil {
		if _, err := h.Audit.SaveOverrideAudit(r.Context(), repo.OverrideAudit{
			LogID:        rec.LogID,
			ViolationID:  rec.ViolationID,
			Parameter:    rec.Parameter,
			Reason:       rec.Reason,
			ApproverID:   rec.ApproverID,
			ApproverName: rec.ApproverName,
			Level:        string(rec.Level),
			ReferenceDoc: rec.ReferenceDoc,
			CreatedAt:    rec.Timestamp,
		}); err != nil {
			log.Printf("safety: persist override audit: %v", err)
		}
	}
	json.NewEncoder(w).Encode(overrideResponse{
		Success: true,
		Message: "override recorded",
		Record:  &rec,
		Log:     &req.Log,
		Summary: req.Log.Summarize(),
	})
}

type ticketRequest struct {
	LogID     string `json:"log_id"`
	Parameter string `json:"parameter"`
	Reason    string `json:"reason"`
	Requester string `json:"requester"`
}

// Ticket files an override request for asynchronous chief-engineer
// approval instead of applying it immediately.
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		http.Error(w, "ticket store not configured", http.StatusServiceUnavailable)
		return
	}
	var req ticketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.LogID == "" || req.Parameter == "" || req.Requester == "" {
		http.Error(w, "log_id, parameter and requester required", http.StatusBadRequest)
		return
	}
	if len(req.Reason) < minJustificationLen {
		http.Error(w, "reason too short", http.StatusUnprocessableEntity)
		return
	}
	id, err := h.Audit.CreateTicket(r.Context(), repo.OverrideTicket{
		LogID:     req.LogID,
		Parameter: req.Parameter,
		Reason:    req.Reason,
		Requester: req.Requester,
	})
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"ticket_id": id})
}

// AuditLog lists persisted overrides for a log across restarts.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		http.Error(w, "audit store not configured", http.StatusServiceUnavailable)
		return
	}
	logID := r.URL.Query().Get("log_id")
	if logID == "" {
		http.Error(w, "log_id required", http.StatusBadRequest)
		return
	}
	rows, err := h.Audit.ListOverrideAudit(r.Context(), logID)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	logID := r.URL.Query().Get("log_id")
	if logID == "" {
		http.Error(w, "log_id required", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.History(logID))
}

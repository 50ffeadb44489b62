package safety

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"AquaTrace/internal/calclog"
)

const minJustificationLen = 50

// ApprovalLevel is who may sign off an override of a given severity.
type ApprovalLevel string

const (
	LevelEngineer       ApprovalLevel = "engineer"
	LevelSeniorEngineer ApprovalLevel = "senior_engineer"
	LevelChiefEngineer  ApprovalLevel = "chief_engineer"
)

// ApprovalLevelFor maps violation severity to the required sign-off.
func ApprovalLevelFor(sev calclog.Severity) ApprovalLevel {
	switch sev {
	case calclog.SeverityMajor:
		return LevelSeniorEngineer
	case calclog.SeverityCritical:
		return LevelChiefEngineer
	default:
		return LevelEngineer
	}
}

// OverrideRecord is the audit entry for one justified exception. It
// references the violation; the log never owns it.
type OverrideRecord struct {
	ID           string        `json:"id"`
	LogID        string        `json:"log_id"`
	ViolationID  string        `json:"violation_id"`
	Parameter    string        `json:"parameter"`
	Actual       float64       `json:"actual"`
	Limit        float64       `json:"limit"`
	Reason       string        `json:"reason"`
	ApproverID   string        `json:"approver_id"`
	ApproverName string        `json:"approver_name"`
	Level        ApprovalLevel `json:"approval_level"`
	ReferenceDoc string        `json:"reference_doc,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Service gates exports and keeps the override history for the life of
// the process. The history map is shared across requests and therefore
// mutex-guarded; logs themselves stay request-scoped.
type Service struct {
	mu      sync.Mutex
	history map[string][]OverrideRecord // by log id
}

func NewService() *Service {
	return &Service{history: make(map[string][]OverrideRecord)}
}

// CheckResult is the export-eligibility verdict for one log.
type CheckResult struct {
	CanExport       bool             `json:"can_export"`
	BlockReasons    []string         `json:"block_reasons"`
	ViolationCounts map[string]int   `json:"violation_counts"`
	Overrides       []OverrideRecord `json:"overrides"`
}

// CheckCalculationLog tallies unresolved violations by severity and
// decides whether downstream export may proceed.
func (s *Service) CheckCalculationLog(l *calclog.Log) CheckResult {
	counts := map[string]int{}
	var reasons []string
	for _, v := range l.Violations {
		if v.IsOverridden {
			continue
		}
		counts[string(v.Severity)]++
		if v.Severity == calclog.SeverityCritical {
			reasons = append(reasons, fmt.Sprintf("%s: %s", v.Parameter, v.Message))
		}
	}
	return CheckResult{
		CanExport:       len(reasons) == 0,
		BlockReasons:    reasons,
		ViolationCounts: counts,
		Overrides:       s.History(l.ID),
	}
}

// RequestOverride applies a justified exception to one violation and
// re-derives the log's export eligibility. Unknown violation ids and
// thin justifications are rejected without touching the log.
func (s *Service) RequestOverride(l *calclog.Log, violationID, reason, approverID, approverName, referenceDoc string) (OverrideRecord, error) {
	v := l.FindViolation(violationID)
	if v == nil {
		return OverrideRecord{}, fmt.Errorf("unknown violation id %q", violationID)
	}
	if v.IsOverridden {
		return OverrideRecord{}, fmt.Errorf("violation %q is already overridden", violationID)
	}
	if len(reason) < minJustificationLen {
		return OverrideRecord{}, fmt.Errorf("reason too short: justification needs at least %d characters, got %d", minJustificationLen, len(reason))
	}
	if approverID == "" {
		return OverrideRecord{}, fmt.Errorf("approver required")
	}

	now := time.Now().UTC()
	rec := OverrideRecord{
		ID:           uuid.NewString(),
		LogID:        l.ID,
		ViolationID:  v.ID,
		Parameter:    v.Parameter,
		Actual:       v.Actual,
		Limit:        v.Limit,
		Reason:       reason,
		ApproverID:   approverID,
		ApproverName: approverName,
		Level:        ApprovalLevelFor(v.Severity),
		ReferenceDoc: referenceDoc,
		Timestamp:    now,
	}
	if err := v.Override(reason, approverName, now); err != nil {
		return OverrideRecord{}, err
	}
	l.Reevaluate()

	s.mu.Lock()
	s.history[l.ID] = append(s.history[l.ID], rec)
	s.mu.Unlock()
	return rec, nil
}

// History returns a copy of the override records for a log.
func (s *Service) History(logID string) []OverrideRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.history[logID]
	out := make([]OverrideRecord, len(recs))
	copy(out, recs)
	return out
}

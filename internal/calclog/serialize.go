package calclog

import (
	"encoding/json"
	"fmt"
)

// Summary is the compact downstream view: counts plus overall status,
// enough for a status badge without shipping every step.
type Summary struct {
	ID             string         `json:"id"`
	Category       string         `json:"category"`
	Module         string         `json:"module"`
	OverallStatus  Status         `json:"overall_status"`
	CanExport      bool           `json:"can_export"`
	StepCount      int            `json:"step_count"`
	ViolationCount int            `json:"violation_count"`
	BySeverity     map[string]int `json:"violations_by_severity"`
}

func (l *Log) Summarize() Summary {
	bySev := map[string]int{}
	for _, v := range l.Violations {
		if !v.IsOverridden {
			bySev[string(v.Severity)]++
		}
	}
	return Summary{
		ID:             l.ID,
		Category:       l.Category,
		Module:         l.Module,
		OverallStatus:  l.OverallStatus,
		CanExport:      l.CanExport,
		StepCount:      len(l.Steps),
		ViolationCount: len(l.Violations),
		BySeverity:     bySev,
	}
}

// Detailed returns the full self-describing mapping of the log. Keys
// follow the struct field names; consumers must not depend on map
// iteration order.
func (l *Log) Detailed() (map[string]any, error) {
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode log: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode log mapping: %w", err)
	}
	return out, nil
}

// FromDetailed rebuilds a log from its detailed mapping.
func FromDetailed(m map[string]any) (*Log, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode log mapping: %w", err)
	}
	var l Log
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}
	if l.Steps == nil {
		l.Steps = []*Step{}
	}
	if l.Violations == nil {
		l.Violations = []*Violation{}
	}
	if l.FinalResults == nil {
		l.FinalResults = map[string]float64{}
	}
	return &l, nil
}

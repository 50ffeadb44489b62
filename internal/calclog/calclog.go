package calclog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status of a single step or of a whole log.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusWarning   Status = "warning"
	StatusViolation Status = "violation"
	StatusError     Status = "error"
)

// Severity of a standard-threshold breach. Critical blocks export.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// LimitKind says which side of the limit was breached.
type LimitKind string

const (
	LimitMin   LimitKind = "min"
	LimitMax   LimitKind = "max"
	LimitRange LimitKind = "range"
	LimitExact LimitKind = "exact"
)

var statusRank = map[Status]int{
	StatusSuccess:   0,
	StatusWarning:   1,
	StatusViolation: 2,
	StatusError:     3,
}

// InputValue is one named input of a calculation step.
type InputValue struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Step records one formula evaluation: what went in, what came out,
// and under which assumptions.
type Step struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Formula     string                `json:"formula"`
	Inputs      map[string]InputValue `json:"inputs"`
	Condition   string                `json:"condition,omitempty"`
	Assumption  string                `json:"assumption,omitempty"`
	Limit       string                `json:"limit,omitempty"`
	Result      float64               `json:"result"`
	Unit        string                `json:"unit,omitempty"`
	Status      Status                `json:"status"`
	Warnings    []string              `json:"warnings,omitempty"`
}

// AddWarning escalates the step to warning status. Warnings never
// downgrade a step that already failed.
func (s *Step) AddWarning(msg string) {
	s.Warnings = append(s.Warnings, msg)
	if statusRank[s.Status] < statusRank[StatusWarning] {
		s.Status = StatusWarning
	}
}

// Violation records one standard-threshold breach with its reference.
type Violation struct {
	ID           string    `json:"id"`
	Parameter    string    `json:"parameter"`
	Actual       float64   `json:"actual"`
	Limit        float64   `json:"limit"`
	Kind         LimitKind `json:"kind"`
	Severity     Severity  `json:"severity"`
	Standard     string    `json:"standard"`
	Clause       string    `json:"clause,omitempty"`
	Message      string    `json:"message"`
	Suggestion   string    `json:"suggestion,omitempty"`
	IsOverridden bool      `json:"is_overridden"`
	Reason       string    `json:"override_reason,omitempty"`
	Approver     string    `json:"override_approver,omitempty"`
	OverriddenAt time.Time `json:"overridden_at,omitempty"`
}

// Override marks the violation as resolved. The justification must not
// be empty: an overridden violation without one breaks the audit trail.
func (v *Violation) Override(reason, approver string, at time.Time) error {
	if reason == "" {
		return fmt.Errorf("override justification required")
	}
	v.IsOverridden = true
	v.Reason = reason
	v.Approver = approver
	v.OverriddenAt = at
	return nil
}

// Log aggregates the steps and violations of one calculation run.
// Created by a domain engine, mutated only by that run, then frozen;
// the safety layer re-evaluates it when an override lands.
type Log struct {
	ID            string             `json:"id"`
	Category      string             `json:"category"`
	Module        string             `json:"module"`
	Description   string             `json:"description,omitempty"`
	Steps         []*Step            `json:"steps"`
	Violations    []*Violation       `json:"violations"`
	FinalResults  map[string]float64 `json:"final_results"`
	OverallStatus Status             `json:"overall_status"`
	CanExport     bool               `json:"can_export"`
	CreatedAt     time.Time          `json:"created_at"`
}

func NewLog(category, module, description string) *Log {
	return &Log{
		ID:            uuid.NewString(),
		Category:      category,
		Module:        module,
		Description:   description,
		Steps:         []*Step{},
		Violations:    []*Violation{},
		FinalResults:  map[string]float64{},
		OverallStatus: StatusSuccess,
		CanExport:     true,
		CreatedAt:     time.Now().UTC(),
	}
}

func NewStep(name, formula string, inputs map[string]InputValue, result float64, unit string) *Step {
	if inputs == nil {
		inputs = map[string]InputValue{}
	}
	return &Step{
		ID:      uuid.NewString(),
		Name:    name,
		Formula: formula,
		Inputs:  inputs,
		Result:  result,
		Unit:    unit,
		Status:  StatusSuccess,
	}
}

func NewViolation(parameter string, actual, limit float64, kind LimitKind, severity Severity, standard, message string) *Violation {
	return &Violation{
		ID:        uuid.NewString(),
		Parameter: parameter,
		Actual:    actual,
		Limit:     limit,
		Kind:      kind,
		Severity:  severity,
		Standard:  standard,
		Message:   message,
	}
}

// AddStep appends in insertion order and escalates the overall status.
func (l *Log) AddStep(s *Step) {
	l.Steps = append(l.Steps, s)
	l.escalate(s.Status)
}

// AddViolation appends and, for an unresolved critical breach, blocks
// export. Status never de-escalates here; only Reevaluate may relax it.
func (l *Log) AddViolation(v *Violation) {
	l.Violations = append(l.Violations, v)
	if v.Severity == SeverityCritical && !v.IsOverridden {
		l.CanExport = false
		l.escalate(StatusViolation)
	} else {
		l.escalate(StatusWarning)
	}
}

// SetResult records one entry of the final-results mapping.
func (l *Log) SetResult(name string, value float64) {
	l.FinalResults[name] = value
}

func (l *Log) escalate(s Status) {
	if statusRank[s] > statusRank[l.OverallStatus] {
		l.OverallStatus = s
	}
}

// FindViolation returns the violation with the given id, or nil.
func (l *Log) FindViolation(id string) *Violation {
	for _, v := range l.Violations {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// UnresolvedCritical reports whether any critical violation remains
// without an override.
func (l *Log) UnresolvedCritical() bool {
	for _, v := range l.Violations {
		if v.Severity == SeverityCritical && !v.IsOverridden {
			return true
		}
	}
	return false
}

// Reevaluate re-derives can_export and the overall status from the
// current violation set. Called by the safety layer after an override.
func (l *Log) Reevaluate() {
	l.CanExport = !l.UnresolvedCritical()

	status := StatusSuccess
	for _, s := range l.Steps {
		if statusRank[s.Status] > statusRank[status] {
			status = s.Status
		}
	}
	for _, v := range l.Violations {
		if v.IsOverridden {
			continue
		}
		if v.Severity == SeverityCritical {
			if statusRank[StatusViolation] > statusRank[status] {
				status = StatusViolation
			}
		} else if statusRank[StatusWarning] > statusRank[status] {
			status = StatusWarning
		}
	}
	l.OverallStatus = status
}

// Merge appends another log's steps and violations, preserving their
// order, and folds its final results in under a prefix.
func (l *Log) Merge(prefix string, other *Log) {
	for _, s := range other.Steps {
		l.AddStep(s)
	}
	for _, v := range other.Violations {
		l.AddViolation(v)
	}
	for name, val := range other.FinalResults {
		l.SetResult(prefix+"."+name, val)
	}
}

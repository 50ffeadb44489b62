package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"

	"AquaTrace/internal/calclog"
)

// ErrExportBlocked is returned when the log still carries an
// unresolved critical violation.
var ErrExportBlocked = fmt.Errorf("export blocked: unresolved critical violation")

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

// Write renders the calculation log as a PDF. The export gate is
// enforced here as well: a blocked log never reaches paper.
func Write(w io.Writer, meta Meta, logRec *calclog.Log) error {
	if logRec == nil {
		return fmt.Errorf("calculation log required")
	}
	logRec.Reevaluate()
	if !logRec.CanExport {
		return ErrExportBlocked
	}
	if meta.Title == "" {
		meta.Title = "Calculation Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Module: %s / %s", logRec.Category, logRec.Module))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", logRec.OverallStatus))
	pdf.Ln(10)

	if meta.Notes != "" {
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
		pdf.Ln(4)
	}

	writeSteps(pdf, logRec)
	writeViolations(pdf, logRec)
	writeResults(pdf, logRec)

	return pdf.Output(w)
}

func writeSteps(pdf *gofpdf.Fpdf, logRec *calclog.Log) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Calculation Steps")
	pdf.Ln(10)

	for i, s := range logRec.Steps {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s", i+1, s.Name))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("    %s = %.6g %s", s.Formula, s.Result, s.Unit), "", "L", false)
		for _, key := range sortedKeys(s.Inputs) {
			in := s.Inputs[key]
			pdf.MultiCell(0, 5, fmt.Sprintf("      %s = %.6g %s", key, in.Value, in.Unit), "", "L", false)
		}
		if s.Condition != "" {
			pdf.MultiCell(0, 5, "      "+s.Condition, "", "L", false)
		}
		for _, warn := range s.Warnings {
			pdf.MultiCell(0, 5, "      warning: "+warn, "", "L", false)
		}
		pdf.Ln(2)
	}
}

func writeViolations(pdf *gofpdf.Fpdf, logRec *calclog.Log) {
	if len(logRec.Violations) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Violations")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	for _, v := range logRec.Violations {
		pdf.MultiCell(0, 5, fmt.Sprintf("%s [%s, %s]: %s", v.Parameter, v.Severity, v.Standard, v.Message), "", "L", false)
		if v.IsOverridden {
			pdf.MultiCell(0, 5, fmt.Sprintf("  overridden by %s: %s", v.Approver, v.Reason), "", "L", false)
		}
		pdf.Ln(1)
	}
}

func writeResults(pdf *gofpdf.Fpdf, logRec *calclog.Log) {
	if len(logRec.FinalResults) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Results")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	for _, key := range sortedKeys(logRec.FinalResults) {
		pdf.Cell(0, 5, fmt.Sprintf("%s = %.6g", key, logRec.FinalResults[key]))
		pdf.Ln(5)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/hydraulics"
)

// RowResult carries one imported pipe run together with its log
// summary, so a spreadsheet batch stays traceable per row.
type RowResult struct {
	Row       int                       `json:"row"`
	Label     string                    `json:"label,omitempty"`
	Result    hydraulics.PipeFlowResult `json:"result"`
	Summary   calclog.Summary           `json:"summary"`
	CanExport bool                      `json:"can_export"`
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type BatchResult struct {
	Count   int         `json:"count"`
	Results []RowResult `json:"results"`
	Skipped []RowError  `json:"skipped"`
}

// PipeFlowBatch reads a sheet of gravity-pipe runs and computes each
// one. Expected columns: label, diameter_m, fill_ratio, slope,
// slope_unit, material, temp_c, length_m. The first row is a header.
func PipeFlowBatch(r io.Reader) (BatchResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return BatchResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return BatchResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return BatchResult{}, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	var out BatchResult
	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		in, label, err := parsePipeRow(rows[i])
		if err != nil {
			out.Skipped = append(out.Skipped, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		res, logRec, err := hydraulics.PipeFlow(in)
		if err != nil {
			out.Skipped = append(out.Skipped, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		out.Results = append(out.Results, RowResult{
			Row:       rowNum,
			Label:     label,
			Result:    res,
			Summary:   logRec.Summarize(),
			CanExport: logRec.CanExport,
		})
	}
	out.Count = len(out.Results)
	return out, nil
}

// expected: label, diameter_m, fill_ratio, slope, slope_unit, material, temp_c, length_m
func parsePipeRow(row []string) (hydraulics.PipeFlowInput, string, error) {
	if len(row) < 4 {
		return hydraulics.PipeFlowInput{}, "", fmt.Errorf("need at least label, diameter, fill ratio and slope")
	}
	label := strings.TrimSpace(row[0])
	d, err := toFloat(row[1])
	if err != nil {
		return hydraulics.PipeFlowInput{}, "", fmt.Errorf("diameter: %w", err)
	}
	fill, err := toFloat(row[2])
	if err != nil {
		return hydraulics.PipeFlowInput{}, "", fmt.Errorf("fill ratio: %w", err)
	}
	slope, err := toFloat(row[3])
	if err != nil {
		return hydraulics.PipeFlowInput{}, "", fmt.Errorf("slope: %w", err)
	}

	in := hydraulics.PipeFlowInput{
		DiameterM: d,
		FillRatio: fill,
		Slope:     slope,
		SlopeUnit: "decimal",
		Material:  "concrete",
	}
	if len(row) > 4 && row[4] != "" {
		in.SlopeUnit = strings.TrimSpace(row[4])
	}
	if len(row) > 5 && row[5] != "" {
		in.Material = strings.TrimSpace(row[5])
	}
	if len(row) > 6 && row[6] != "" {
		if in.TempC, err = toFloat(row[6]); err != nil {
			return hydraulics.PipeFlowInput{}, "", fmt.Errorf("temperature: %w", err)
		}
	}
	if len(row) > 7 && row[7] != "" {
		if in.LengthM, err = toFloat(row[7]); err != nil {
			return hydraulics.PipeFlowInput{}, "", fmt.Errorf("length: %w", err)
		}
	}
	return in, label, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

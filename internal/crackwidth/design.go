package crackwidth

import (
	"fmt"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/tables"
)

const (
	minBarSpacingMM = 80
	maxBarSpacingMM = 300
	spacingStepMM   = 10
)

type DesignInput struct {
	MomentKNm     float64 `json:"moment_knm"`
	HeightMM      float64 `json:"height_mm"`
	CoverMM       float64 `json:"cover_mm"`
	ConcreteGrade string  `json:"concrete_grade"`
	SteelGrade    string  `json:"steel_grade"`
	Exposure      string  `json:"exposure"`
	LongTerm      bool    `json:"long_term"`
}

type DesignResult struct {
	Feasible      bool    `json:"feasible"`
	BarDiameterMM float64 `json:"bar_diameter_mm"`
	SpacingMM     float64 `json:"spacing_mm"`
	AsMM2         float64 `json:"as_mm2"`
	CrackWidthMM  float64 `json:"crack_width_mm"`
	LimitMM       float64 `json:"limit_mm"`
	Message       string  `json:"message,omitempty"`
}

// DesignForCrackControl searches the standard bar diameters and the
// buildable spacing range for the least steel that still keeps the
// governing crack width within the exposure limit. An empty search
// is reported as an explicit infeasible result, never substituted.
func DesignForCrackControl(in DesignInput) (DesignResult, *calclog.Log, error) {
	if in.MomentKNm <= 0 || in.HeightMM <= 0 || in.CoverMM <= 0 {
		return DesignResult{}, nil, fmt.Errorf("moment, height and cover must be positive")
	}
	exposure, err := tables.Exposure(in.Exposure)
	if err != nil {
		return DesignResult{}, nil, err
	}

	logRec := calclog.NewLog("structural", "crack_control_design", "reinforcement search for crack control")

	best := DesignResult{Feasible: false, LimitMM: exposure.CrackLimitMM}
	tried := 0
	for _, ds := range tables.StandardBarDiameters {
		for spacing := float64(maxBarSpacingMM); spacing >= minBarSpacingMM; spacing -= spacingStepMM {
			as := tables.BarArea(ds) * 1000 / spacing
			res, _, err := Check(Input{
				MomentKNm:     in.MomentKNm,
				WidthMM:       1000,
				HeightMM:      in.HeightMM,
				CoverMM:       in.CoverMM,
				BarDiameterMM: ds,
				AsMM2:         as,
				ConcreteGrade: in.ConcreteGrade,
				SteelGrade:    in.SteelGrade,
				Exposure:      in.Exposure,
				LongTerm:      in.LongTerm,
			})
			if err != nil {
				return DesignResult{}, nil, err
			}
			tried++
			if res.GoverningMM > exposure.CrackLimitMM {
				continue
			}
			if !best.Feasible || as < best.AsMM2 {
				best = DesignResult{
					Feasible:      true,
					BarDiameterMM: ds,
					SpacingMM:     spacing,
					AsMM2:         as,
					CrackWidthMM:  res.GoverningMM,
					LimitMM:       exposure.CrackLimitMM,
				}
			}
			// Spacing only tightens from here, adding steel; the
			// first hit is the cheapest for this diameter.
			break
		}
	}

	searchStep := calclog.NewStep("bar_search", "min A_s over d_s x spacing with a_cr <= a_lim", map[string]calclog.InputValue{
		"candidates": {Value: float64(tried)},
		"a_lim":      {Value: exposure.CrackLimitMM, Unit: "mm"},
	}, best.AsMM2, "mm2")
	if !best.Feasible {
		best.Message = "no bar diameter/spacing combination satisfies the crack limit"
		searchStep.Status = calclog.StatusError
		logRec.AddStep(searchStep)
		viol := calclog.NewViolation("crack_control_design", 0, exposure.CrackLimitMM, calclog.LimitMax,
			calclog.SeverityCritical, "TCVN 5574:2018", best.Message)
		viol.Suggestion = "increase the section height or raise the concrete grade"
		logRec.AddViolation(viol)
		return best, logRec, nil
	}
	logRec.AddStep(searchStep)
	logRec.SetResult("as_mm2", best.AsMM2)
	logRec.SetResult("bar_diameter_mm", best.BarDiameterMM)
	logRec.SetResult("spacing_mm", best.SpacingMM)
	return best, logRec, nil
}

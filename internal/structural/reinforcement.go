package structural

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/tables"
)

const minReinforcementRatio = 0.001 // of b*h0, bending members

// ReinforcementResult is a singly-reinforced rectangular-section design
// per TCVN 5574 with a bar layout selected for a 1 m strip.
type ReinforcementResult struct {
	AlphaM           float64 `json:"alpha_m"`
	AlphaR           float64 `json:"alpha_r"`
	Xi               float64 `json:"xi"`
	AsRequiredMM2    float64 `json:"as_required_mm2"`
	AsProvidedMM2    float64 `json:"as_provided_mm2"`
	BarDiameterMM    float64 `json:"bar_diameter_mm"`
	SpacingMM        float64 `json:"spacing_mm"`
	CompressionSteel bool    `json:"compression_steel_required"`
	MinRatioGoverned bool    `json:"min_ratio_governed"`
}

// DesignReinforcement sizes tension steel for a rectangular section
// under a bending moment (per metre strip).
func DesignReinforcement(logRec *calclog.Log, momentKNm, widthMM, effectiveDepthMM float64, concrete tables.ConcreteClass, steel tables.SteelClass) (ReinforcementResult, error) {
	if momentKNm <= 0 || widthMM <= 0 || effectiveDepthMM <= 0 {
		return ReinforcementResult{}, fmt.Errorf("moment, width and effective depth must be positive")
	}

	b := widthMM
	h0 := effectiveDepthMM
	alphaM := momentKNm * 1e6 / (concrete.Rb * b * h0 * h0)
	alphaR := steel.XiR * (1 - 0.5*steel.XiR)

	res := ReinforcementResult{AlphaM: alphaM, AlphaR: alphaR}
	xi := 0.0
	if alphaM > alphaR {
		// Over-reinforced: compression steel is needed; size the
		// tension side at the ductility limit.
		res.CompressionSteel = true
		xi = steel.XiR
		v := calclog.NewViolation("alpha_m_max", alphaM, alphaR, calclog.LimitMax,
			calclog.SeverityMajor, "TCVN 5574:2018",
			fmt.Sprintf("alpha_m %.3f exceeds alpha_R %.3f: compression reinforcement required", alphaM, alphaR))
		v.Clause = "8.1.2"
		v.Suggestion = "increase the section thickness or concrete grade"
		logRec.AddViolation(v)
	} else {
		xi = 1 - math.Sqrt(1-2*alphaM)
	}
	res.Xi = xi

	as := xi * concrete.Rb * b * h0 / steel.Rs
	asMin := minReinforcementRatio * b * h0
	if as < asMin {
		as = asMin
		res.MinRatioGoverned = true
	}
	res.AsRequiredMM2 = as

	step := calclog.NewStep("reinforcement_area", "A_s = xi*R_b*b*h_0/R_s", map[string]calclog.InputValue{
		"alpha_m": {Value: alphaM},
		"alpha_R": {Value: alphaR},
		"xi":      {Value: xi},
		"R_b":     {Value: concrete.Rb, Unit: "MPa"},
		"R_s":     {Value: steel.Rs, Unit: "MPa"},
		"b":       {Value: b, Unit: "mm"},
		"h_0":     {Value: h0, Unit: "mm"},
	}, as, "mm2")
	if res.MinRatioGoverned {
		step.Condition = "minimum reinforcement ratio governs"
	}
	logRec.AddStep(step)

	ds, spacing, provided, err := selectBars(as, b)
	if err != nil {
		v := calclog.NewViolation("bar_layout", as, 0, calclog.LimitRange,
			calclog.SeverityCritical, "TCVN 5574:2018",
			"no standard bar layout provides the required area within 80-300 mm spacing")
		v.Suggestion = "increase the section thickness"
		logRec.AddViolation(v)
		return res, nil
	}
	res.BarDiameterMM = ds
	res.SpacingMM = spacing
	res.AsProvidedMM2 = provided
	logRec.AddStep(calclog.NewStep("bar_selection", "A_s,prov = a_bar*b/s", map[string]calclog.InputValue{
		"d_s":      {Value: ds, Unit: "mm"},
		"s":        {Value: spacing, Unit: "mm"},
		"A_s,req":  {Value: as, Unit: "mm2"},
		"A_s,prov": {Value: provided, Unit: "mm2"},
	}, provided, "mm2"))
	return res, nil
}

// selectBars picks the bar diameter and spacing giving the least
// provided area that still covers the requirement, with the spacing
// held to the buildable 80-300 mm band (10 mm raster).
func selectBars(asRequiredMM2, stripWidthMM float64) (ds, spacing, provided float64, err error) {
	best := math.Inf(1)
	for _, d := range tables.StandardBarDiameters {
		area := tables.BarArea(d)
		// widest raster spacing still meeting the requirement
		s := math.Floor(area*stripWidthMM/asRequiredMM2/10) * 10
		if s > 300 {
			s = 300
		}
		if s < 80 {
			continue
		}
		prov := area * stripWidthMM / s
		if prov < best {
			best = prov
			ds, spacing, provided = d, s, prov
		}
	}
	if math.IsInf(best, 1) {
		return 0, 0, 0, fmt.Errorf("no feasible bar layout for %.0f mm2", asRequiredMM2)
	}
	return ds, spacing, provided, nil
}

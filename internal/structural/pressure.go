package structural

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
)

const gammaWater = 9.81 // kN/m3

// PressureResultant is a lateral load resultant per metre of wall.
type PressureResultant struct {
	PMaxKPa     float64 `json:"p_max_kpa"`
	ResultantKN float64 `json:"resultant_kn_per_m"`
	CentroidM   float64 `json:"centroid_m"` // above the wall base
}

// HydrostaticPressure resolves the triangular water load on a wall of
// the given wet depth.
func HydrostaticPressure(depthM float64) (PressureResultant, []*calclog.Step, error) {
	if depthM <= 0 {
		return PressureResultant{}, nil, fmt.Errorf("water depth must be positive")
	}
	pMax := gammaWater * depthM
	resultant := 0.5 * gammaWater * depthM * depthM
	centroid := depthM / 3

	steps := []*calclog.Step{
		calclog.NewStep("hydrostatic_pressure", "p_max = gamma_w*h", map[string]calclog.InputValue{
			"gamma_w": {Value: gammaWater, Unit: "kN/m3"},
			"h":       {Value: depthM, Unit: "m"},
		}, pMax, "kPa"),
		calclog.NewStep("hydrostatic_resultant", "P = 0.5*gamma_w*h^2", map[string]calclog.InputValue{
			"gamma_w": {Value: gammaWater, Unit: "kN/m3"},
			"h":       {Value: depthM, Unit: "m"},
		}, resultant, "kN/m"),
	}
	return PressureResultant{PMaxKPa: pMax, ResultantKN: resultant, CentroidM: centroid}, steps, nil
}

// ActiveEarthPressure resolves the Rankine active pressure of backfill
// plus a uniform surcharge. The centroid is the load-weighted average
// of the triangular and rectangular components.
func ActiveEarthPressure(depthM, gammaSoilKNM3, phiDeg, surchargeKPa float64) (PressureResultant, []*calclog.Step, error) {
	if depthM <= 0 || gammaSoilKNM3 <= 0 {
		return PressureResultant{}, nil, fmt.Errorf("soil depth and unit weight must be positive")
	}
	if phiDeg <= 0 || phiDeg >= 60 {
		return PressureResultant{}, nil, fmt.Errorf("friction angle out of range (0,60), got %g", phiDeg)
	}
	if surchargeKPa < 0 {
		return PressureResultant{}, nil, fmt.Errorf("surcharge must not be negative")
	}

	phi := phiDeg * math.Pi / 180
	ka := math.Pow(math.Tan(math.Pi/4-phi/2), 2)

	pTri := 0.5 * ka * gammaSoilKNM3 * depthM * depthM
	pRect := ka * surchargeKPa * depthM
	total := pTri + pRect
	centroid := (pTri*depthM/3 + pRect*depthM/2) / total
	pMax := ka * (gammaSoilKNM3*depthM + surchargeKPa)

	steps := []*calclog.Step{
		calclog.NewStep("active_pressure_coefficient", "K_a = tan^2(45 - phi/2)", map[string]calclog.InputValue{
			"phi": {Value: phiDeg, Unit: "deg", Description: "soil friction angle"},
		}, ka, ""),
		calclog.NewStep("active_earth_resultant", "P = 0.5*K_a*gamma_s*h^2 + K_a*q*h", map[string]calclog.InputValue{
			"K_a":     {Value: ka},
			"gamma_s": {Value: gammaSoilKNM3, Unit: "kN/m3"},
			"h":       {Value: depthM, Unit: "m"},
			"q":       {Value: surchargeKPa, Unit: "kPa", Description: "surcharge"},
		}, total, "kN/m"),
	}
	return PressureResultant{PMaxKPa: pMax, ResultantKN: total, CentroidM: centroid}, steps, nil
}

package hydraulics

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/tables"
)

const (
	g = 9.81 // m/s2

	// flow regime thresholds on the Reynolds number
	reLaminar   = 2300.0
	reTurbulent = 4000.0
)

// ReynoldsNumber computes Re = V*D/nu with the viscosity interpolated
// from the water table at the given temperature. Laminar flow in a
// sewer is unusual enough to warrant a warning on the step.
func ReynoldsNumber(velocityMS, diameterM, tempC float64) (float64, *calclog.Step, error) {
	if velocityMS <= 0 || diameterM <= 0 {
		return 0, nil, fmt.Errorf("velocity and diameter must be positive")
	}
	nu := tables.WaterViscosity(tempC)
	re := velocityMS * diameterM / nu

	step := calclog.NewStep("reynolds_number", "Re = V*D/nu", map[string]calclog.InputValue{
		"V":  {Value: velocityMS, Unit: "m/s", Description: "flow velocity"},
		"D":  {Value: diameterM, Unit: "m", Description: "pipe diameter"},
		"nu": {Value: nu, Unit: "m2/s", Description: "kinematic viscosity"},
		"T":  {Value: tempC, Unit: "degC", Description: "water temperature"},
	}, re, "")
	switch {
	case re < reLaminar:
		step.AddWarning("laminar flow: sediment transport is not ensured")
	case re < reTurbulent:
		step.AddWarning("transitional flow regime")
	}
	return re, step, nil
}

// FlowRegime classifies a Reynolds number.
func FlowRegime(re float64) string {
	switch {
	case re < reLaminar:
		return "laminar"
	case re < reTurbulent:
		return "transitional"
	default:
		return "turbulent"
	}
}

// FroudeNumber computes Fr = V/sqrt(g*h). Flow close to critical depth
// (0.9 < Fr < 1.1) is hydraulically unstable in practice.
func FroudeNumber(velocityMS, depthM float64) (float64, *calclog.Step, error) {
	if velocityMS <= 0 || depthM <= 0 {
		return 0, nil, fmt.Errorf("velocity and depth must be positive")
	}
	fr := velocityMS / math.Sqrt(g*depthM)
	step := calclog.NewStep("froude_number", "Fr = V/sqrt(g*h)", map[string]calclog.InputValue{
		"V": {Value: velocityMS, Unit: "m/s"},
		"h": {Value: depthM, Unit: "m", Description: "hydraulic depth"},
		"g": {Value: g, Unit: "m/s2"},
	}, fr, "")
	if fr > 0.9 && fr < 1.1 {
		step.AddWarning("near-critical flow: depth is numerically unstable")
	}
	return fr, step, nil
}

// FlowState classifies a Froude number.
func FlowState(fr float64) string {
	switch {
	case fr < 1:
		return "subcritical"
	case fr > 1:
		return "supercritical"
	default:
		return "critical"
	}
}

// NormalizeSlope converts a slope given in decimal, percent or permille
// to a decimal gradient.
func NormalizeSlope(slope float64, unit string) (float64, error) {
	switch unit {
	case "", "decimal":
	case "percent":
		slope /= 100
	case "permille":
		slope /= 1000
	default:
		return 0, fmt.Errorf("unknown slope unit %q", unit)
	}
	if slope <= 0 {
		return 0, fmt.Errorf("slope must be positive, got %g", slope)
	}
	return slope, nil
}

// ManningVelocity computes V = (1/n)*R^(2/3)*S^(1/2).
func ManningVelocity(hydraulicRadiusM, slope float64, slopeUnit string, n float64) (float64, *calclog.Step, error) {
	if hydraulicRadiusM <= 0 {
		return 0, nil, fmt.Errorf("hydraulic radius must be positive")
	}
	if n <= 0 {
		return 0, nil, fmt.Errorf("Manning roughness must be positive")
	}
	s, err := NormalizeSlope(slope, slopeUnit)
	if err != nil {
		return 0, nil, err
	}
	v := (1.0 / n) * math.Pow(hydraulicRadiusM, 2.0/3.0) * math.Sqrt(s)
	step := calclog.NewStep("manning_velocity", "V = (1/n)*R^(2/3)*S^(1/2)", map[string]calclog.InputValue{
		"n": {Value: n, Description: "Manning roughness"},
		"R": {Value: hydraulicRadiusM, Unit: "m", Description: "hydraulic radius"},
		"S": {Value: s, Description: "slope, decimal"},
	}, v, "m/s")
	return v, step, nil
}

// DarcyWeisbachLoss computes h_f = f*(L/D)*V^2/(2g).
func DarcyWeisbachLoss(f, lengthM, diameterM, velocityMS float64) (float64, *calclog.Step, error) {
	if f <= 0 || lengthM <= 0 || diameterM <= 0 || velocityMS <= 0 {
		return 0, nil, fmt.Errorf("friction factor, length, diameter and velocity must be positive")
	}
	hf := f * (lengthM / diameterM) * velocityMS * velocityMS / (2 * g)
	step := calclog.NewStep("darcy_weisbach_loss", "h_f = f*(L/D)*V^2/(2g)", map[string]calclog.InputValue{
		"f": {Value: f, Description: "Darcy friction factor"},
		"L": {Value: lengthM, Unit: "m"},
		"D": {Value: diameterM, Unit: "m"},
		"V": {Value: velocityMS, Unit: "m/s"},
	}, hf, "m")
	return hf, step, nil
}

// MinorLosses computes h_m = sum(K)*V^2/(2g) over the supplied fitting
// coefficients.
func MinorLosses(velocityMS float64, fittings map[string]float64) (float64, *calclog.Step, error) {
	if velocityMS <= 0 {
		return 0, nil, fmt.Errorf("velocity must be positive")
	}
	sumK := 0.0
	inputs := map[string]calclog.InputValue{
		"V": {Value: velocityMS, Unit: "m/s"},
	}
	for name, k := range fittings {
		if k < 0 {
			return 0, nil, fmt.Errorf("negative loss coefficient for %q", name)
		}
		sumK += k
		inputs["K_"+name] = calclog.InputValue{Value: k, Description: "loss coefficient"}
	}
	hm := sumK * velocityMS * velocityMS / (2 * g)
	step := calclog.NewStep("minor_losses", "h_m = sum(K)*V^2/(2g)", inputs, hm, "m")
	return hm, step, nil
}

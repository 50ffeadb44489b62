package hydraulics

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
)

// PartialFlowGeometry describes a partially filled circular section.
type PartialFlowGeometry struct {
	CentralAngleRad  float64 `json:"central_angle_rad"`
	WettedAreaM2     float64 `json:"wetted_area_m2"`
	WettedPerimeterM float64 `json:"wetted_perimeter_m"`
	HydraulicRadiusM float64 `json:"hydraulic_radius_m"`
	TopWidthM        float64 `json:"top_width_m"`
	HydraulicDepthM  float64 `json:"hydraulic_depth_m"`
	FlowDepthM       float64 `json:"flow_depth_m"`
}

// CircularGeometry computes the wetted geometry of a circular pipe
// flowing partly full. Valid only for 0 < fillRatio < 1; a full or
// empty pipe has no free surface.
func CircularGeometry(diameterM, fillRatio float64) (PartialFlowGeometry, []*calclog.Step, error) {
	if diameterM <= 0 {
		return PartialFlowGeometry{}, nil, fmt.Errorf("diameter must be positive")
	}
	if fillRatio <= 0 || fillRatio >= 1 {
		return PartialFlowGeometry{}, nil, fmt.Errorf("fill ratio must be in (0,1), got %g", fillRatio)
	}

	d := diameterM
	h := fillRatio * d
	theta := 2 * math.Acos(1-2*h/d)
	area := d * d / 8 * (theta - math.Sin(theta))
	perimeter := d * theta / 2
	radius := area / perimeter
	topWidth := d * math.Sin(theta/2)
	hydraulicDepth := area / topWidth

	geomInputs := map[string]calclog.InputValue{
		"D":   {Value: d, Unit: "m", Description: "pipe diameter"},
		"h/D": {Value: fillRatio, Description: "fill ratio"},
	}
	steps := []*calclog.Step{
		calclog.NewStep("central_angle", "theta = 2*arccos(1 - 2*h/D)", geomInputs, theta, "rad"),
		calclog.NewStep("wetted_area", "A = (D^2/8)*(theta - sin(theta))", map[string]calclog.InputValue{
			"D":     {Value: d, Unit: "m"},
			"theta": {Value: theta, Unit: "rad"},
		}, area, "m2"),
		calclog.NewStep("wetted_perimeter", "P = D*theta/2", map[string]calclog.InputValue{
			"D":     {Value: d, Unit: "m"},
			"theta": {Value: theta, Unit: "rad"},
		}, perimeter, "m"),
		calclog.NewStep("hydraulic_radius", "R = A/P", map[string]calclog.InputValue{
			"A": {Value: area, Unit: "m2"},
			"P": {Value: perimeter, Unit: "m"},
		}, radius, "m"),
		calclog.NewStep("hydraulic_depth", "D_h = A/T, T = D*sin(theta/2)", map[string]calclog.InputValue{
			"A": {Value: area, Unit: "m2"},
			"T": {Value: topWidth, Unit: "m", Description: "top width"},
		}, hydraulicDepth, "m"),
	}

	return PartialFlowGeometry{
		CentralAngleRad:  theta,
		WettedAreaM2:     area,
		WettedPerimeterM: perimeter,
		HydraulicRadiusM: radius,
		TopWidthM:        topWidth,
		HydraulicDepthM:  hydraulicDepth,
		FlowDepthM:       h,
	}, steps, nil
}

package structural

import (
	"fmt"

	"AquaTrace/internal/calclog"
)

// Minimum safety factors for a buried water-retaining structure.
const (
	MinUpliftSF      = 1.2
	MinOverturningSF = 1.5
	MinSlidingSF     = 1.3
)

type StabilityInput struct {
	StructureWeightKN   float64 `json:"structure_weight_kn"`
	BaseAreaM2          float64 `json:"base_area_m2"`
	GroundwaterHeadM    float64 `json:"groundwater_head_m"` // above the base slab
	LateralForceKN      float64 `json:"lateral_force_kn"`
	LateralLeverM       float64 `json:"lateral_lever_m"`
	RestoringLeverM     float64 `json:"restoring_lever_m"`
	FrictionCoefficient float64 `json:"friction_coefficient"`
}

type StabilityResult struct {
	UpliftSF      float64 `json:"uplift_sf"`
	OverturningSF float64 `json:"overturning_sf"`
	SlidingSF     float64 `json:"sliding_sf"`
	OK            bool    `json:"ok"`
}

// CheckStability verifies uplift, overturning and sliding of the empty
// structure. Each shortfall is a critical violation: a floating or
// sliding tank is not recoverable by reinforcement.
func CheckStability(in StabilityInput) (StabilityResult, *calclog.Log, error) {
	if in.StructureWeightKN <= 0 || in.BaseAreaM2 <= 0 {
		return StabilityResult{}, nil, fmt.Errorf("structure weight and base area must be positive")
	}
	if in.FrictionCoefficient <= 0 {
		in.FrictionCoefficient = 0.45 // concrete on compacted granular fill
	}

	logRec := calclog.NewLog("structural", "stability", "uplift/overturning/sliding of the empty tank")
	res := StabilityResult{OK: true}

	// Uplift: buoyancy on the base vs structure self weight.
	uplift := gammaWater * in.GroundwaterHeadM * in.BaseAreaM2
	if uplift > 0 {
		res.UpliftSF = in.StructureWeightKN / uplift
	} else {
		res.UpliftSF = 99.0
	}
	logRec.AddStep(calclog.NewStep("uplift_safety", "SF = W/(gamma_w*h_w*A)", map[string]calclog.InputValue{
		"W":   {Value: in.StructureWeightKN, Unit: "kN"},
		"h_w": {Value: in.GroundwaterHeadM, Unit: "m"},
		"A":   {Value: in.BaseAreaM2, Unit: "m2"},
	}, res.UpliftSF, ""))
	if res.UpliftSF < MinUpliftSF {
		res.OK = false
		v := calclog.NewViolation("uplift_sf_min", res.UpliftSF, MinUpliftSF, calclog.LimitMin,
			calclog.SeverityCritical, "TCVN 9152:2012",
			fmt.Sprintf("uplift safety factor %.2f below %.2f", res.UpliftSF, MinUpliftSF))
		v.Suggestion = "thicken the base slab or add tension piles"
		logRec.AddViolation(v)
	}

	if in.LateralForceKN > 0 {
		driving := in.LateralForceKN * in.LateralLeverM
		resisting := in.StructureWeightKN * in.RestoringLeverM
		if driving > 0 {
			res.OverturningSF = resisting / driving
		} else {
			res.OverturningSF = 99.0
		}
		logRec.AddStep(calclog.NewStep("overturning_safety", "SF = M_resist/M_drive", map[string]calclog.InputValue{
			"M_resist": {Value: resisting, Unit: "kNm"},
			"M_drive":  {Value: driving, Unit: "kNm"},
		}, res.OverturningSF, ""))
		if res.OverturningSF < MinOverturningSF {
			res.OK = false
			v := calclog.NewViolation("overturning_sf_min", res.OverturningSF, MinOverturningSF, calclog.LimitMin,
				calclog.SeverityCritical, "TCVN 9152:2012",
				fmt.Sprintf("overturning safety factor %.2f below %.2f", res.OverturningSF, MinOverturningSF))
			logRec.AddViolation(v)
		}

		res.SlidingSF = in.FrictionCoefficient * in.StructureWeightKN / in.LateralForceKN
		logRec.AddStep(calclog.NewStep("sliding_safety", "SF = mu*W/H", map[string]calclog.InputValue{
			"mu": {Value: in.FrictionCoefficient, Description: "base friction coefficient"},
			"W":  {Value: in.StructureWeightKN, Unit: "kN"},
			"H":  {Value: in.LateralForceKN, Unit: "kN"},
		}, res.SlidingSF, ""))
		if res.SlidingSF < MinSlidingSF {
			res.OK = false
			v := calclog.NewViolation("sliding_sf_min", res.SlidingSF, MinSlidingSF, calclog.LimitMin,
				calclog.SeverityCritical, "TCVN 9152:2012",
				fmt.Sprintf("sliding safety factor %.2f below %.2f", res.SlidingSF, MinSlidingSF))
			v.Suggestion = "add a shear key under the base slab"
			logRec.AddViolation(v)
		}
	}

	logRec.SetResult("uplift_sf", res.UpliftSF)
	logRec.SetResult("overturning_sf", res.OverturningSF)
	logRec.SetResult("sliding_sf", res.SlidingSF)
	return res, logRec, nil
}

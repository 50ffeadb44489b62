package hydraulics

import (
	"fmt"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/tables"
)

// Default gravity-sewer velocity limits per TCVN 7957:2008.
const (
	DefaultMinVelocity = 0.7 // m/s, self-cleansing
	DefaultMaxVelocity = 4.0 // m/s, erosion limit
)

type PipeFlowInput struct {
	DiameterM     float64            `json:"diameter_m"`
	FillRatio     float64            `json:"fill_ratio"`
	Slope         float64            `json:"slope"`
	SlopeUnit     string             `json:"slope_unit"` // decimal, percent, permille
	Material      string             `json:"material"`
	RoughnessN    float64            `json:"roughness_n"` // overrides Material when set
	TempC         float64            `json:"temp_c"`
	MinVelocityMS float64            `json:"min_velocity_ms"`
	MaxVelocityMS float64            `json:"max_velocity_ms"`
	LengthM       float64            `json:"length_m"`            // optional, enables the head-loss chain
	AbsRoughnessM float64            `json:"abs_roughness_m"`     // optional, for Colebrook-White
	Fittings      map[string]float64 `json:"fittings"`            // optional minor-loss coefficients
}

type PipeFlowResult struct {
	Geometry       PartialFlowGeometry `json:"geometry"`
	VelocityMS     float64             `json:"velocity_ms"`
	FlowRateM3S    float64             `json:"flow_rate_m3s"`
	Reynolds       float64             `json:"reynolds"`
	Regime         string              `json:"regime"`
	Froude         float64             `json:"froude"`
	State          string              `json:"state"`
	Friction       FrictionResult      `json:"friction"`
	FrictionLossM  float64             `json:"friction_loss_m"`
	MinorLossM     float64             `json:"minor_loss_m"`
	TotalHeadLossM float64             `json:"total_head_loss_m"`
}

// PipeFlow runs the full traceable gravity-pipe computation: geometry,
// Manning velocity, flow rate, regime and state classification,
// velocity-limit checks, and, when a length is supplied, the
// friction/minor-loss chain.
func PipeFlow(in PipeFlowInput) (PipeFlowResult, *calclog.Log, error) {
	logRec := calclog.NewLog("hydraulic", "pipe_flow", "partial-flow gravity pipe")

	n := in.RoughnessN
	if n <= 0 {
		var err error
		n, err = tables.ManningRoughness(in.Material)
		if err != nil {
			return PipeFlowResult{}, nil, err
		}
	}
	if in.TempC == 0 {
		in.TempC = 20
	}

	geom, geomSteps, err := CircularGeometry(in.DiameterM, in.FillRatio)
	if err != nil {
		return PipeFlowResult{}, nil, err
	}
	for _, s := range geomSteps {
		logRec.AddStep(s)
	}

	v, vStep, err := ManningVelocity(geom.HydraulicRadiusM, in.Slope, in.SlopeUnit, n)
	if err != nil {
		return PipeFlowResult{}, nil, err
	}
	logRec.AddStep(vStep)

	q := v * geom.WettedAreaM2
	logRec.AddStep(calclog.NewStep("flow_rate", "Q = V*A", map[string]calclog.InputValue{
		"V": {Value: v, Unit: "m/s"},
		"A": {Value: geom.WettedAreaM2, Unit: "m2"},
	}, q, "m3/s"))

	re, reStep, err := ReynoldsNumber(v, in.DiameterM, in.TempC)
	if err != nil {
		return PipeFlowResult{}, nil, err
	}
	logRec.AddStep(reStep)

	fr, frStep, err := FroudeNumber(v, geom.HydraulicDepthM)
	if err != nil {
		return PipeFlowResult{}, nil, err
	}
	logRec.AddStep(frStep)

	checkVelocityLimits(logRec, v, in.MinVelocityMS, in.MaxVelocityMS)

	res := PipeFlowResult{
		Geometry:    geom,
		VelocityMS:  v,
		FlowRateM3S: q,
		Reynolds:    re,
		Regime:      FlowRegime(re),
		Froude:      fr,
		State:       FlowState(fr),
	}

	if in.LengthM > 0 {
		relRough := 0.0
		if in.AbsRoughnessM > 0 {
			relRough = in.AbsRoughnessM / in.DiameterM
		}
		friction, fStep, err := FrictionFactor(re, relRough)
		if err != nil {
			return PipeFlowResult{}, nil, err
		}
		logRec.AddStep(fStep)

		hf, hfStep, err := DarcyWeisbachLoss(friction.F, in.LengthM, in.DiameterM, v)
		if err != nil {
			return PipeFlowResult{}, nil, err
		}
		logRec.AddStep(hfStep)

		hm := 0.0
		if len(in.Fittings) > 0 {
			var hmStep *calclog.Step
			hm, hmStep, err = MinorLosses(v, in.Fittings)
			if err != nil {
				return PipeFlowResult{}, nil, err
			}
			logRec.AddStep(hmStep)
		}

		res.Friction = friction
		res.FrictionLossM = hf
		res.MinorLossM = hm
		res.TotalHeadLossM = hf + hm
		logRec.SetResult("total_head_loss_m", hf+hm)
	}

	logRec.SetResult("velocity_ms", v)
	logRec.SetResult("flow_rate_m3s", q)
	logRec.SetResult("reynolds", re)
	logRec.SetResult("froude", fr)
	return res, logRec, nil
}

func checkVelocityLimits(logRec *calclog.Log, v, vMin, vMax float64) {
	if vMin <= 0 {
		vMin = DefaultMinVelocity
	}
	if vMax <= 0 {
		vMax = DefaultMaxVelocity
	}
	if v < vMin {
		viol := calclog.NewViolation(
			"velocity_min", v, vMin, calclog.LimitMin, calclog.SeverityMajor,
			"TCVN 7957:2008",
			fmt.Sprintf("velocity %.2f m/s below self-cleansing minimum %.2f m/s", v, vMin))
		viol.Suggestion = "increase the slope or reduce the diameter"
		logRec.AddViolation(viol)
	}
	if v > vMax {
		viol := calclog.NewViolation(
			"velocity_max", v, vMax, calclog.LimitMax, calclog.SeverityCritical,
			"TCVN 7957:2008",
			fmt.Sprintf("velocity %.2f m/s above erosion limit %.2f m/s", v, vMax))
		viol.Suggestion = "reduce the slope or add a drop structure"
		logRec.AddViolation(viol)
	}
}

package tankdesign

import (
	"fmt"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/optimizer"
	"AquaTrace/internal/safety"
	"AquaTrace/internal/structural"
)

const gammaConcrete = 25.0 // kN/m3

type Input struct {
	RequiredVolumeM3 float64 `json:"required_volume_m3"`
	FlowRateM3Day    float64 `json:"flow_rate_m3_day"`

	// Explicit dimensions skip the optimizer and are checked as given.
	LengthM float64 `json:"length_m"`
	WidthM  float64 `json:"width_m"`
	HeightM float64 `json:"height_m"`

	MaxSurfaceLoading float64 `json:"max_surface_loading"` // m3/m2/day
	MinRetentionH     float64 `json:"min_retention_h"`

	WallThicknessMM float64 `json:"wall_thickness_mm"`
	CoverMM         float64 `json:"cover_mm"`
	SoilDepthM      float64 `json:"soil_depth_m"`
	GammaSoil       float64 `json:"gamma_soil_knm3"`
	PhiDeg          float64 `json:"phi_deg"`
	SurchargeKPa    float64 `json:"surcharge_kpa"`
	Support         string  `json:"support"`
	ConcreteGrade   string  `json:"concrete_grade"`
	SteelGrade      string  `json:"steel_grade"`
	Exposure        string  `json:"exposure"`

	GroundwaterHeadM float64 `json:"groundwater_head_m"`

	OptimizerConfig optimizer.Config `json:"optimizer_config"`
}

type Result struct {
	Feasible       bool                        `json:"feasible"`
	LengthM        float64                     `json:"length_m"`
	WidthM         float64                     `json:"width_m"`
	HeightM        float64                     `json:"height_m"`
	VolumeM3       float64                     `json:"volume_m3"`
	SurfaceLoading float64                     `json:"surface_loading"`
	RetentionH     float64                     `json:"retention_h"`
	Optimization   *optimizer.Result           `json:"optimization,omitempty"`
	Wall           structural.WallDesignResult `json:"wall"`
	Stability      *structural.StabilityResult `json:"stability,omitempty"`
	Gate           safety.CheckResult          `json:"gate"`
	Message        string                      `json:"message,omitempty"`
}

// Design runs the full traceable tank-design chain: sizing, hydraulic
// feasibility, wall design, stability, then the export gate. All steps
// and violations land in one merged log.
func Design(in Input, svc *safety.Service) (Result, *calclog.Log, error) {
	if svc == nil {
		return Result{}, nil, fmt.Errorf("safety service required")
	}
	explicitDims := in.LengthM > 0 || in.WidthM > 0 || in.HeightM > 0
	if explicitDims && (in.LengthM <= 0 || in.WidthM <= 0 || in.HeightM <= 0) {
		return Result{}, nil, fmt.Errorf("explicit dimensions must all be positive")
	}
	if !explicitDims && in.RequiredVolumeM3 <= 0 {
		return Result{}, nil, fmt.Errorf("required volume must be positive")
	}
	if in.WallThicknessMM <= 0 {
		in.WallThicknessMM = 400
	}
	if in.CoverMM <= 0 {
		in.CoverMM = 40
	}

	logRec := calclog.NewLog("tank_design", "tank_design", "composite tank design run")
	res := Result{Feasible: true}

	if explicitDims {
		res.LengthM, res.WidthM, res.HeightM = in.LengthM, in.WidthM, in.HeightM
	} else {
		cfg := in.OptimizerConfig
		if in.MaxSurfaceLoading > 0 {
			cfg.MaxSurfaceLoading = in.MaxSurfaceLoading
		}
		if in.MinRetentionH > 0 {
			cfg.MinRetentionH = in.MinRetentionH
		}
		opt, optLog, err := optimizer.Optimize(optimizer.Input{
			RequiredVolumeM3: in.RequiredVolumeM3,
			FlowRateM3Day:    in.FlowRateM3Day,
			Config:           cfg,
		})
		if err != nil {
			return Result{}, nil, err
		}
		logRec.Merge("optimizer", optLog)
		res.Optimization = &opt
		if !opt.Feasible {
			res.Feasible = false
			res.Message = opt.Message
			res.Gate = svc.CheckCalculationLog(logRec)
			return res, logRec, nil
		}
		res.LengthM, res.WidthM, res.HeightM = opt.Best.LengthM, opt.Best.WidthM, opt.Best.HeightM
	}
	res.VolumeM3 = res.LengthM * res.WidthM * res.HeightM

	if in.FlowRateM3Day > 0 {
		checkHydraulics(logRec, &res, in)
	}

	wall, wallLog, err := structural.DesignWall(structural.WallDesignInput{
		HeightM:       res.HeightM,
		ThicknessMM:   in.WallThicknessMM,
		CoverMM:       in.CoverMM,
		SoilDepthM:    in.SoilDepthM,
		GammaSoil:     in.GammaSoil,
		PhiDeg:        in.PhiDeg,
		SurchargeKPa:  in.SurchargeKPa,
		Support:       in.Support,
		ConcreteGrade: in.ConcreteGrade,
		SteelGrade:    in.SteelGrade,
		Exposure:      in.Exposure,
	})
	if err != nil {
		return Result{}, nil, err
	}
	logRec.Merge("wall", wallLog)
	res.Wall = wall

	if in.GroundwaterHeadM > 0 {
		stab, stabLog, err := checkStability(in, res)
		if err != nil {
			return Result{}, nil, err
		}
		logRec.Merge("stability", stabLog)
		res.Stability = stab
	}

	res.Gate = svc.CheckCalculationLog(logRec)
	return res, logRec, nil
}

// checkHydraulics verifies retention time and surface loading of the
// chosen plan area against the configured process limits.
func checkHydraulics(logRec *calclog.Log, res *Result, in Input) {
	minRetention := in.MinRetentionH
	if minRetention <= 0 {
		minRetention = 2.0
	}
	maxLoading := in.MaxSurfaceLoading
	if maxLoading <= 0 {
		maxLoading = 40.0
	}

	res.RetentionH = res.VolumeM3 / in.FlowRateM3Day * 24
	logRec.AddStep(calclog.NewStep("retention_time", "t = V/Q", map[string]calclog.InputValue{
		"V": {Value: res.VolumeM3, Unit: "m3"},
		"Q": {Value: in.FlowRateM3Day, Unit: "m3/day"},
	}, res.RetentionH, "h"))
	if res.RetentionH < minRetention {
		v := calclog.NewViolation("retention_time_min", res.RetentionH, minRetention, calclog.LimitMin,
			calclog.SeverityMajor, "TCVN 7957:2008",
			fmt.Sprintf("retention time %.2f h below the required %.2f h", res.RetentionH, minRetention))
		v.Suggestion = "increase the tank volume"
		logRec.AddViolation(v)
	}

	res.SurfaceLoading = in.FlowRateM3Day / (res.LengthM * res.WidthM)
	logRec.AddStep(calclog.NewStep("surface_loading", "q_A = Q/(L*W)", map[string]calclog.InputValue{
		"Q": {Value: in.FlowRateM3Day, Unit: "m3/day"},
		"L": {Value: res.LengthM, Unit: "m"},
		"W": {Value: res.WidthM, Unit: "m"},
	}, res.SurfaceLoading, "m3/m2/day"))
	if res.SurfaceLoading > maxLoading {
		v := calclog.NewViolation("surface_loading_max", res.SurfaceLoading, maxLoading, calclog.LimitMax,
			calclog.SeverityCritical, "TCVN 7957:2008",
			fmt.Sprintf("surface loading %.1f m3/m2/day above the limit %.1f", res.SurfaceLoading, maxLoading))
		v.Suggestion = "enlarge the plan area or split the flow over parallel tanks"
		logRec.AddViolation(v)
	}
}

func checkStability(in Input, res Result) (*structural.StabilityResult, *calclog.Log, error) {
	wallT := in.WallThicknessMM / 1000
	baseT := wallT * 1.2
	concreteM3 := 2*(res.LengthM+res.WidthM)*res.HeightM*wallT +
		(res.LengthM+2*wallT)*(res.WidthM+2*wallT)*baseT
	weight := concreteM3 * gammaConcrete

	lateralForce := 0.0
	lateralLever := 0.0
	if in.SoilDepthM > 0 {
		earth, _, err := structural.ActiveEarthPressure(in.SoilDepthM, in.GammaSoil, in.PhiDeg, in.SurchargeKPa)
		if err != nil {
			return nil, nil, err
		}
		lateralForce = earth.ResultantKN * res.LengthM
		lateralLever = earth.CentroidM
	}

	stab, stabLog, err := structural.CheckStability(structural.StabilityInput{
		StructureWeightKN: weight,
		BaseAreaM2:        (res.LengthM + 2*wallT) * (res.WidthM + 2*wallT),
		GroundwaterHeadM:  in.GroundwaterHeadM,
		LateralForceKN:    lateralForce,
		LateralLeverM:     lateralLever,
		RestoringLeverM:   res.WidthM / 2,
	})
	if err != nil {
		return nil, nil, err
	}
	return &stab, stabLog, nil
}

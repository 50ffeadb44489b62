package optimizer

import (
	"fmt"
	"math"
	"sort"

	"AquaTrace/internal/calclog"
)

// Feasibility window on the built volume relative to the requirement.
const (
	volumeFloorFactor = 0.95
	volumeCeilFactor  = 1.5
)

// Config bounds the search and prices the quantities. Zero fields fall
// back to the defaults below.
type Config struct {
	MinRatioLW        float64 `json:"min_ratio_lw"`
	MaxRatioLW        float64 `json:"max_ratio_lw"`
	MinDimM           float64 `json:"min_dim_m"`
	MaxDimM           float64 `json:"max_dim_m"`
	MinHeightM        float64 `json:"min_height_m"`
	MaxHeightM        float64 `json:"max_height_m"`
	MinRetentionH     float64 `json:"min_retention_h"`
	MaxSurfaceLoading float64 `json:"max_surface_loading"` // m3/m2/day

	Precision string `json:"precision"` // coarse, normal, fine

	ConcreteCost      float64 `json:"concrete_cost_m3"`
	SteelCost         float64 `json:"steel_cost_kg"`
	FormworkCost      float64 `json:"formwork_cost_m2"`
	WaterproofingCost float64 `json:"waterproofing_cost_m2"`
	ExcavationCost    float64 `json:"excavation_cost_m3"`
	IndirectPct       float64 `json:"indirect_pct"`
	ContingencyPct    float64 `json:"contingency_pct"`
}

func (c *Config) applyDefaults() {
	if c.MinRatioLW <= 0 {
		c.MinRatioLW = 1.0
	}
	if c.MaxRatioLW <= 0 {
		c.MaxRatioLW = 3.0
	}
	if c.MinDimM <= 0 {
		c.MinDimM = 1.0
	}
	if c.MaxDimM <= 0 {
		c.MaxDimM = 50.0
	}
	if c.MinHeightM <= 0 {
		c.MinHeightM = 2.0
	}
	if c.MaxHeightM <= 0 {
		c.MaxHeightM = 8.0
	}
	if c.MinRetentionH <= 0 {
		c.MinRetentionH = 2.0
	}
	if c.MaxSurfaceLoading <= 0 {
		c.MaxSurfaceLoading = 40.0
	}
	if c.ConcreteCost <= 0 {
		c.ConcreteCost = 2_500_000 // VND/m3
	}
	if c.SteelCost <= 0 {
		c.SteelCost = 18_000 // VND/kg
	}
	if c.FormworkCost <= 0 {
		c.FormworkCost = 150_000 // VND/m2
	}
	if c.WaterproofingCost <= 0 {
		c.WaterproofingCost = 120_000 // VND/m2
	}
	if c.ExcavationCost <= 0 {
		c.ExcavationCost = 80_000 // VND/m3
	}
	if c.IndirectPct <= 0 {
		c.IndirectPct = 0.10
	}
	if c.ContingencyPct <= 0 {
		c.ContingencyPct = 0.05
	}
}

func (c *Config) step() float64 {
	switch c.Precision {
	case "coarse":
		return 0.5
	case "fine":
		return 0.1
	default:
		return 0.25
	}
}

type Input struct {
	RequiredVolumeM3 float64 `json:"required_volume_m3"`
	FlowRateM3Day    float64 `json:"flow_rate_m3_day"` // optional, enables hydraulic checks
	Config           Config  `json:"config"`
}

// Candidate is one costed tank configuration.
type Candidate struct {
	LengthM  float64       `json:"length_m"`
	WidthM   float64       `json:"width_m"`
	HeightM  float64       `json:"height_m"`
	VolumeM3 float64       `json:"volume_m3"`
	Cost     CostBreakdown `json:"cost"`
}

type CostBreakdown struct {
	ConcreteM3      float64 `json:"concrete_m3"`
	SteelKg         float64 `json:"steel_kg"`
	FormworkM2      float64 `json:"formwork_m2"`
	WaterproofingM2 float64 `json:"waterproofing_m2"`
	ExcavationM3    float64 `json:"excavation_m3"`
	DirectCost      float64 `json:"direct_cost"`
	TotalCost       float64 `json:"total_cost"`
}

type Result struct {
	Feasible     bool        `json:"feasible"`
	Best         Candidate   `json:"best"`
	Alternatives []Candidate `json:"alternatives"`
	BaselineCost float64     `json:"baseline_cost"`
	SavingsPct   float64     `json:"savings_pct"`
	Evaluated    int         `json:"evaluated"`
	Message      string      `json:"message,omitempty"`
}

// defaultShape is the heuristic starting point the search window is
// derived from: 4 m deep, 1.5:1 in plan.
func defaultShape(volume float64, cfg Config) (l, w, h float64) {
	h = 4.0
	if h > cfg.MaxHeightM {
		h = cfg.MaxHeightM
	}
	if h < cfg.MinHeightM {
		h = cfg.MinHeightM
	}
	w = math.Sqrt(volume / (1.5 * h))
	l = 1.5 * w
	return l, w, h
}

// Optimize grid-searches length/width/height for the cheapest feasible
// tank. No feasible candidate is an explicit failure: the default shape
// is never silently substituted.
func Optimize(in Input) (Result, *calclog.Log, error) {
	if in.RequiredVolumeM3 <= 0 {
		return Result{}, nil, fmt.Errorf("required volume must be positive")
	}
	if in.FlowRateM3Day < 0 {
		return Result{}, nil, fmt.Errorf("flow rate must not be negative")
	}
	cfg := in.Config
	cfg.applyDefaults()

	logRec := calclog.NewLog("optimization", "tank_dimensions", "grid search for minimum constructed cost")

	l0, w0, h0 := defaultShape(in.RequiredVolumeM3, cfg)
	baseline := costModel(l0, w0, h0, cfg)
	logRec.AddStep(calclog.NewStep("default_shape", "H = 4 m, L/W = 1.5, V = L*W*H", map[string]calclog.InputValue{
		"V_req": {Value: in.RequiredVolumeM3, Unit: "m3"},
		"L_0":   {Value: l0, Unit: "m"},
		"W_0":   {Value: w0, Unit: "m"},
		"H_0":   {Value: h0, Unit: "m"},
	}, baseline.TotalCost, "VND"))

	step := cfg.step()
	window := func(center, lo, hi float64) (float64, float64) {
		a := math.Max(center*0.5, lo)
		b := math.Min(center*2.0, hi)
		return a, b
	}
	lLo, lHi := window(l0, cfg.MinDimM, cfg.MaxDimM)
	wLo, wHi := window(w0, cfg.MinDimM, cfg.MaxDimM)
	hLo, hHi := window(h0, cfg.MinHeightM, cfg.MaxHeightM)

	var feasible []Candidate
	evaluated := 0
	for l := lLo; l <= lHi+1e-9; l += step {
		for w := wLo; w <= wHi+1e-9; w += step {
			for h := hLo; h <= hHi+1e-9; h += step {
				evaluated++
				if !isFeasible(l, w, h, in, cfg) {
					continue
				}
				feasible = append(feasible, Candidate{
					LengthM:  l,
					WidthM:   w,
					HeightM:  h,
					VolumeM3: l * w * h,
					Cost:     costModel(l, w, h, cfg),
				})
			}
		}
	}

	searchStep := calclog.NewStep("grid_search", "min cost over L x W x H", map[string]calclog.InputValue{
		"step":      {Value: step, Unit: "m"},
		"evaluated": {Value: float64(evaluated)},
		"feasible":  {Value: float64(len(feasible))},
	}, float64(len(feasible)), "")
	if len(feasible) == 0 {
		searchStep.Status = calclog.StatusError
		logRec.AddStep(searchStep)
		v := calclog.NewViolation("tank_feasibility", 0, in.RequiredVolumeM3, calclog.LimitRange,
			calclog.SeverityCritical, "design constraints",
			"no dimension combination satisfies the volume, ratio and hydraulic constraints")
		v.Suggestion = "relax the ratio bounds or split the volume over several tanks"
		logRec.AddViolation(v)
		return Result{
			Feasible:  false,
			Evaluated: evaluated,
			Message:   "no feasible tank configuration in the search window",
		}, logRec, nil
	}
	logRec.AddStep(searchStep)

	sort.Slice(feasible, func(i, j int) bool { return feasible[i].Cost.TotalCost < feasible[j].Cost.TotalCost })
	best := feasible[0]
	alt := feasible[1:]
	if len(alt) > 5 {
		alt = alt[:5]
	}

	savings := 0.0
	if baseline.TotalCost > 0 {
		savings = (baseline.TotalCost - best.Cost.TotalCost) / baseline.TotalCost * 100
	}

	logRec.SetResult("length_m", best.LengthM)
	logRec.SetResult("width_m", best.WidthM)
	logRec.SetResult("height_m", best.HeightM)
	logRec.SetResult("total_cost", best.Cost.TotalCost)
	logRec.SetResult("savings_pct", savings)

	return Result{
		Feasible:     true,
		Best:         best,
		Alternatives: append([]Candidate(nil), alt...),
		BaselineCost: baseline.TotalCost,
		SavingsPct:   savings,
		Evaluated:    evaluated,
	}, logRec, nil
}

func isFeasible(l, w, h float64, in Input, cfg Config) bool {
	v := l * w * h
	if v < volumeFloorFactor*in.RequiredVolumeM3 || v > volumeCeilFactor*in.RequiredVolumeM3 {
		return false
	}
	ratio := l / w
	if ratio < cfg.MinRatioLW || ratio > cfg.MaxRatioLW {
		return false
	}
	if l < cfg.MinDimM || l > cfg.MaxDimM || w < cfg.MinDimM || w > cfg.MaxDimM {
		return false
	}
	if h < cfg.MinHeightM || h > cfg.MaxHeightM {
		return false
	}
	if in.FlowRateM3Day > 0 {
		retentionH := v / in.FlowRateM3Day * 24
		if retentionH < cfg.MinRetentionH {
			return false
		}
		surfaceLoading := in.FlowRateM3Day / (l * w)
		if surfaceLoading > cfg.MaxSurfaceLoading {
			return false
		}
	}
	return true
}

// costModel prices the main quantities of a buried rectangular tank.
func costModel(l, w, h float64, cfg Config) CostBreakdown {
	wallT := math.Max(0.25, h/12)
	baseT := math.Max(0.3, h/10)

	wallAreaM2 := 2 * (l + w) * h
	concrete := wallAreaM2*wallT + (l+2*wallT)*(w+2*wallT)*baseT
	// Steel intensity grows with depth: deeper walls carry more load.
	steelRatio := 80 + 12.5*h // kg/m3
	steel := concrete * steelRatio
	formwork := 2 * wallAreaM2 // both faces
	waterproofing := wallAreaM2 + l*w
	excavation := (l + 2*wallT + 1) * (w + 2*wallT + 1) * (h + baseT + 0.5)

	direct := concrete*cfg.ConcreteCost +
		steel*cfg.SteelCost +
		formwork*cfg.FormworkCost +
		waterproofing*cfg.WaterproofingCost +
		excavation*cfg.ExcavationCost
	total := direct * (1 + cfg.IndirectPct) * (1 + cfg.ContingencyPct)

	return CostBreakdown{
		ConcreteM3:      concrete,
		SteelKg:         steel,
		FormworkM2:      formwork,
		WaterproofingM2: waterproofing,
		ExcavationM3:    excavation,
		DirectCost:      direct,
		TotalCost:       total,
	}
}

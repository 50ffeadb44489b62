package crackwidth

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/tables"
)

// CheckStatus classifies the governing crack width against the
// environment limit.
type CheckStatus string

const (
	StatusPass    CheckStatus = "PASS"    // <= 80% of the limit
	StatusWarning CheckStatus = "WARNING" // <= limit
	StatusFail    CheckStatus = "FAIL"
)

type Input struct {
	MomentKNm     float64 `json:"moment_knm"` // per metre strip
	WidthMM       float64 `json:"width_mm"`   // strip width, usually 1000
	HeightMM      float64 `json:"height_mm"`
	CoverMM       float64 `json:"cover_mm"`
	BarDiameterMM float64 `json:"bar_diameter_mm"`
	AsMM2         float64 `json:"as_mm2"` // provided tension steel
	ConcreteGrade string  `json:"concrete_grade"`
	SteelGrade    string  `json:"steel_grade"`
	Exposure      string  `json:"exposure"`
	LongTerm      bool    `json:"long_term"`
}

type Result struct {
	SigmaSMPa       float64     `json:"sigma_s_mpa"`
	EffectiveAreaM2 float64     `json:"ac_eff_mm2"`
	RhoEff          float64     `json:"rho_eff"`
	CrackSpacingMM  float64     `json:"crack_spacing_mm"`
	Psi             float64     `json:"psi"`
	TCVNWidthMM     float64     `json:"tcvn_width_mm"`
	EurocodeWidthMM float64     `json:"eurocode_width_mm"`
	GoverningMM     float64     `json:"governing_mm"`
	LimitMM         float64     `json:"limit_mm"`
	Status          CheckStatus `json:"status"`
}

// Check verifies the crack width by the TCVN 5574 formula, cross-checks
// it against the Eurocode 2 expression, and reports the larger of the
// two as governing.
func Check(in Input) (Result, *calclog.Log, error) {
	if in.MomentKNm <= 0 || in.HeightMM <= 0 || in.CoverMM <= 0 || in.BarDiameterMM <= 0 || in.AsMM2 <= 0 {
		return Result{}, nil, fmt.Errorf("moment, height, cover, bar diameter and steel area must be positive")
	}
	if in.WidthMM <= 0 {
		in.WidthMM = 1000
	}
	concrete, err := tables.Concrete(in.ConcreteGrade)
	if err != nil {
		return Result{}, nil, err
	}
	steel, err := tables.Steel(in.SteelGrade)
	if err != nil {
		return Result{}, nil, err
	}
	exposure, err := tables.Exposure(in.Exposure)
	if err != nil {
		return Result{}, nil, err
	}

	logRec := calclog.NewLog("structural", "crack_width", "serviceability crack check")

	h0 := in.HeightMM - in.CoverMM - in.BarDiameterMM/2
	if h0 <= 0 {
		return Result{}, nil, fmt.Errorf("cover leaves no effective depth")
	}
	z := 0.9 * h0 // lever arm approximation for a cracked section
	sigmaS := in.MomentKNm * 1e6 / (in.AsMM2 * z)
	sigmaStep := calclog.NewStep("steel_stress", "sigma_s = M/(A_s*z)", map[string]calclog.InputValue{
		"M":   {Value: in.MomentKNm, Unit: "kNm"},
		"A_s": {Value: in.AsMM2, Unit: "mm2"},
		"z":   {Value: z, Unit: "mm", Description: "lever arm"},
	}, sigmaS, "MPa")
	sigmaStep.Assumption = "z = 0.9*h0"
	logRec.AddStep(sigmaStep)

	// Effective tension zone around the bars.
	hEff := math.Min(2.5*(in.HeightMM-h0), in.HeightMM/2)
	acEff := in.WidthMM * hEff
	rhoEff := in.AsMM2 / acEff
	logRec.AddStep(calclog.NewStep("effective_ratio", "rho_eff = A_s/A_c,eff", map[string]calclog.InputValue{
		"A_s":     {Value: in.AsMM2, Unit: "mm2"},
		"A_c,eff": {Value: acEff, Unit: "mm2"},
	}, rhoEff, ""))

	// Distribution coefficient from the cracking moment ratio.
	wEl := in.WidthMM * in.HeightMM * in.HeightMM / 6
	mCrc := concrete.Rbt * wEl / 1e6 // kNm
	psi := 1 - 0.8*mCrc/in.MomentKNm
	if psi < 0.2 {
		psi = 0.2
	}
	if psi > 1 {
		psi = 1
	}
	logRec.AddStep(calclog.NewStep("distribution_coefficient", "psi_s = 1 - 0.8*M_crc/M", map[string]calclog.InputValue{
		"M_crc": {Value: mCrc, Unit: "kNm", Description: "cracking moment"},
		"M":     {Value: in.MomentKNm, Unit: "kNm"},
	}, psi, ""))

	// Crack spacing per TCVN 5574, bounded by bar-diameter and absolute caps.
	ls := 0.5 * acEff / in.AsMM2 * in.BarDiameterMM
	ls = math.Max(ls, math.Max(10*in.BarDiameterMM, 100))
	ls = math.Min(ls, math.Min(40*in.BarDiameterMM, 400))
	logRec.AddStep(calclog.NewStep("crack_spacing", "l_s = 0.5*(A_c,eff/A_s)*d_s", map[string]calclog.InputValue{
		"A_c,eff": {Value: acEff, Unit: "mm2"},
		"A_s":     {Value: in.AsMM2, Unit: "mm2"},
		"d_s":     {Value: in.BarDiameterMM, Unit: "mm"},
	}, ls, "mm"))

	phi1 := 1.0
	if in.LongTerm {
		phi1 = 1.4
	}
	const (
		phi2 = 0.5 // deformed bars
		phi3 = 1.0 // bending
	)
	tcvn := phi1 * phi2 * phi3 * psi * sigmaS / steel.Es * ls
	tcvnStep := calclog.NewStep("crack_width_tcvn", "a_cr = phi1*phi2*phi3*psi_s*(sigma_s/E_s)*l_s", map[string]calclog.InputValue{
		"phi1":    {Value: phi1, Description: "load duration"},
		"phi2":    {Value: phi2, Description: "bar surface"},
		"phi3":    {Value: phi3, Description: "action type"},
		"psi_s":   {Value: psi},
		"sigma_s": {Value: sigmaS, Unit: "MPa"},
		"l_s":     {Value: ls, Unit: "mm"},
	}, tcvn, "mm")
	tcvnStep.Limit = "TCVN 5574:2018, 8.2.2"
	logRec.AddStep(tcvnStep)

	ec2 := eurocodeWidth(in, concrete, steel, sigmaS, rhoEff)
	logRec.AddStep(calclog.NewStep("crack_width_ec2", "w_k = s_r,max*(eps_sm - eps_cm)", map[string]calclog.InputValue{
		"sigma_s": {Value: sigmaS, Unit: "MPa"},
		"rho_eff": {Value: rhoEff},
		"c":       {Value: in.CoverMM, Unit: "mm"},
	}, ec2, "mm"))

	governing := math.Max(tcvn, ec2)
	limit := exposure.CrackLimitMM
	status := StatusFail
	switch {
	case governing <= 0.8*limit:
		status = StatusPass
	case governing <= limit:
		status = StatusWarning
		warnStep := calclog.NewStep("crack_limit_check", "a_cr <= a_lim", nil, governing, "mm")
		warnStep.AddWarning(fmt.Sprintf("crack width %.3f mm uses more than 80%% of the %.2f mm limit", governing, limit))
		logRec.AddStep(warnStep)
	default:
		viol := calclog.NewViolation("crack_width_max", governing, limit, calclog.LimitMax,
			calclog.SeverityCritical, "TCVN 5574:2018",
			fmt.Sprintf("crack width %.3f mm exceeds the %.2f mm limit for exposure %s", governing, limit, exposure.Code))
		viol.Clause = "8.2.1"
		viol.Suggestion = "increase reinforcement or reduce bar diameter"
		logRec.AddViolation(viol)
	}

	logRec.SetResult("crack_width_mm", governing)
	logRec.SetResult("crack_limit_mm", limit)

	return Result{
		SigmaSMPa:       sigmaS,
		EffectiveAreaM2: acEff,
		RhoEff:          rhoEff,
		CrackSpacingMM:  ls,
		Psi:             psi,
		TCVNWidthMM:     tcvn,
		EurocodeWidthMM: ec2,
		GoverningMM:     governing,
		LimitMM:         limit,
		Status:          status,
	}, logRec, nil
}

// eurocodeWidth is the EC2 7.3.4 cross-check expression.
func eurocodeWidth(in Input, concrete tables.ConcreteClass, steel tables.SteelClass, sigmaS, rhoEff float64) float64 {
	kt := 0.6
	if in.LongTerm {
		kt = 0.4
	}
	const (
		k1 = 0.8 // ribbed bars
		k2 = 0.5 // bending
	)
	srMax := 3.4*in.CoverMM + 0.425*k1*k2*in.BarDiameterMM/rhoEff
	alphaE := steel.Es / concrete.Eb
	epsDiff := (sigmaS - kt*concrete.Rbt/rhoEff*(1+alphaE*rhoEff)) / steel.Es
	floor := 0.6 * sigmaS / steel.Es
	if epsDiff < floor {
		epsDiff = floor
	}
	return srMax * epsDiff
}

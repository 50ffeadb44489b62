package hydraulics

import (
	"fmt"
	"math"

	"AquaTrace/internal/calclog"
)

const (
	frictionTolerance = 1e-6
	frictionMaxIter   = 50
)

// FrictionResult carries the solved Darcy friction factor together with
// how it was obtained.
type FrictionResult struct {
	F          float64 `json:"f"`
	Method     string  `json:"method"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// swameeJain is the closed-form estimate used to seed the iteration.
func swameeJain(re, relRoughness float64) float64 {
	d := math.Log10(relRoughness/3.7 + 5.74/math.Pow(re, 0.9))
	return 0.25 / (d * d)
}

// FrictionFactor solves for the Darcy friction factor. Laminar flow has
// the closed form f = 64/Re; otherwise Colebrook-White is solved by
// fixed-point iteration seeded with Swamee-Jain. The iteration is capped
// at 50 rounds; a capped result is returned as a best effort with a
// warning on the step.
func FrictionFactor(re, relRoughness float64) (FrictionResult, *calclog.Step, error) {
	if re <= 0 {
		return FrictionResult{}, nil, fmt.Errorf("Reynolds number must be positive")
	}
	if relRoughness < 0 {
		return FrictionResult{}, nil, fmt.Errorf("relative roughness must not be negative")
	}

	inputs := map[string]calclog.InputValue{
		"Re":  {Value: re, Description: "Reynolds number"},
		"e/D": {Value: relRoughness, Description: "relative roughness"},
	}

	if re < reLaminar {
		f := 64.0 / re
		res := FrictionResult{F: f, Method: "laminar", Iterations: 0, Converged: true}
		step := calclog.NewStep("friction_factor", "f = 64/Re", inputs, f, "")
		step.Assumption = "laminar flow"
		return res, step, nil
	}

	// Iterate on x = 1/sqrt(f): the Colebrook-White residual at the
	// accepted root is then bounded by the last iteration delta.
	x := 1.0 / math.Sqrt(swameeJain(re, relRoughness))
	iterations := 0
	converged := false
	for i := 1; i <= frictionMaxIter; i++ {
		iterations = i
		next := -2.0 * math.Log10(relRoughness/3.7+2.51*x/re)
		if math.Abs(next-x) < frictionTolerance {
			x = next
			converged = true
			break
		}
		x = next
	}
	f := 1.0 / (x * x)

	res := FrictionResult{F: f, Method: "colebrook-white", Iterations: iterations, Converged: converged}
	step := calclog.NewStep("friction_factor", "1/sqrt(f) = -2*log10(e/(3.7D) + 2.51/(Re*sqrt(f)))", inputs, f, "")
	step.Condition = fmt.Sprintf("fixed-point, %d iterations, Swamee-Jain seed", iterations)
	if !converged {
		step.AddWarning(fmt.Sprintf("did not converge within %d iterations, returning last approximation", frictionMaxIter))
	}
	return res, step, nil
}

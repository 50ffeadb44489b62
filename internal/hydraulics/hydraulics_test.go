package hydraulics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AquaTrace/internal/calclog"
)

func TestManningVelocityExample(t *testing.T) {
	// (1/0.013)*0.2^(2/3)*0.005^0.5
	v, step, err := ManningVelocity(0.2, 0.005, "decimal", 0.013)
	require.NoError(t, err)
	assert.InDelta(t, 1.86, v, 0.01)
	assert.Equal(t, "m/s", step.Unit)
}

func TestManningVelocityRejectsBadSlope(t *testing.T) {
	_, _, err := ManningVelocity(0.2, 0, "decimal", 0.013)
	assert.Error(t, err)

	_, _, err = ManningVelocity(0.2, -5, "permille", 0.013)
	assert.Error(t, err)
}

func TestNormalizeSlopeUnits(t *testing.T) {
	cases := []struct {
		slope float64
		unit  string
		want  float64
	}{
		{0.005, "decimal", 0.005},
		{0.005, "", 0.005},
		{0.5, "percent", 0.005},
		{5, "permille", 0.005},
	}
	for _, c := range cases {
		got, err := NormalizeSlope(c.slope, c.unit)
		require.NoError(t, err)
		assert.InDelta(t, c.want, got, 1e-12)
	}

	_, err := NormalizeSlope(5, "furlongs")
	assert.Error(t, err)
}

func TestReynoldsWarnsOnLaminar(t *testing.T) {
	// Tiny velocity and diameter give laminar flow.
	re, step, err := ReynoldsNumber(0.001, 0.05, 20)
	require.NoError(t, err)
	assert.Less(t, re, 2300.0)
	assert.Equal(t, calclog.StatusWarning, step.Status)
	assert.NotEmpty(t, step.Warnings)
}

func TestFroudeWarnsNearCritical(t *testing.T) {
	h := 0.5
	vCritical := math.Sqrt(9.81 * h)
	fr, step, err := FroudeNumber(vCritical*1.02, h)
	require.NoError(t, err)
	assert.Greater(t, fr, 0.9)
	assert.Less(t, fr, 1.1)
	assert.Equal(t, calclog.StatusWarning, step.Status)
}

func TestFrictionFactorLaminar(t *testing.T) {
	res, step, err := FrictionFactor(1000, 0.001)
	require.NoError(t, err)
	assert.InDelta(t, 0.064, res.F, 1e-9)
	assert.Equal(t, "laminar", res.Method)
	assert.Equal(t, calclog.StatusSuccess, step.Status)
}

func TestFrictionFactorSatisfiesColebrook(t *testing.T) {
	for _, c := range []struct{ re, rr float64 }{
		{4000, 0.0001},
		{1e5, 0.001},
		{1e6, 0.01},
		{5e7, 0.00005},
	} {
		res, _, err := FrictionFactor(c.re, c.rr)
		require.NoError(t, err)
		require.True(t, res.Converged)

		lhs := 1 / math.Sqrt(res.F)
		rhs := -2 * math.Log10(c.rr/3.7+2.51/(c.re*math.Sqrt(res.F)))
		assert.InDelta(t, rhs, lhs, 1e-6, "Re=%g e/D=%g", c.re, c.rr)
	}
}

func TestCircularGeometryHalfFull(t *testing.T) {
	d := 0.3
	geom, steps, err := CircularGeometry(d, 0.5)
	require.NoError(t, err)
	assert.Len(t, steps, 5)
	assert.InDelta(t, math.Pi, geom.CentralAngleRad, 1e-9)
	assert.InDelta(t, math.Pi*d*d/8, geom.WettedAreaM2, 1e-9)
	assert.InDelta(t, d/4, geom.HydraulicRadiusM, 1e-9)
	assert.InDelta(t, d, geom.TopWidthM, 1e-9)
}

func TestCircularGeometryDomain(t *testing.T) {
	for _, fill := range []float64{0, 1, -0.2, 1.5} {
		_, _, err := CircularGeometry(0.3, fill)
		assert.Error(t, err, "fill=%g", fill)
	}
}

func TestPipeFlowVelocityViolations(t *testing.T) {
	// A steep large pipe breaches the erosion limit.
	_, logRec, err := PipeFlow(PipeFlowInput{
		DiameterM: 1.0,
		FillRatio: 0.7,
		Slope:     8,
		SlopeUnit: "percent",
		Material:  "concrete",
	})
	require.NoError(t, err)
	assert.False(t, logRec.CanExport)

	var found *calclog.Violation
	for _, v := range logRec.Violations {
		if v.Parameter == "velocity_max" {
			found = v
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, calclog.SeverityCritical, found.Severity)
}

func TestPipeFlowHeadLossChain(t *testing.T) {
	res, logRec, err := PipeFlow(PipeFlowInput{
		DiameterM:     0.3,
		FillRatio:     0.6,
		Slope:         5,
		SlopeUnit:     "permille",
		Material:      "concrete",
		LengthM:       120,
		AbsRoughnessM: 0.0015,
		Fittings:      map[string]float64{"bend_90": 0.3, "entry": 0.5},
	})
	require.NoError(t, err)
	assert.Greater(t, res.FrictionLossM, 0.0)
	assert.Greater(t, res.MinorLossM, 0.0)
	assert.InDelta(t, res.FrictionLossM+res.MinorLossM, res.TotalHeadLossM, 1e-12)
	assert.Greater(t, res.Friction.Iterations, 0)

	// The friction step records the iteration count.
	var frictionStep *calclog.Step
	for _, s := range logRec.Steps {
		if s.Name == "friction_factor" {
			frictionStep = s
		}
	}
	require.NotNil(t, frictionStep)
	assert.Contains(t, frictionStep.Condition, "iterations")
}

func TestMinorLossesRejectsNegativeK(t *testing.T) {
	_, _, err := MinorLosses(1.0, map[string]float64{"valve": -0.5})
	assert.Error(t, err)
}

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeSatisfiesVolumeWindow(t *testing.T) {
	required := 200.0
	res, logRec, err := Optimize(Input{RequiredVolumeM3: required})
	require.NoError(t, err)
	require.True(t, res.Feasible)

	v := res.Best.LengthM * res.Best.WidthM * res.Best.HeightM
	assert.GreaterOrEqual(t, v, 0.95*required)
	assert.LessOrEqual(t, v, 1.5*required)
	assert.True(t, logRec.CanExport)
	assert.Greater(t, res.Evaluated, 0)
}

func TestOptimizeBestIsCheapestAlternative(t *testing.T) {
	res, _, err := Optimize(Input{RequiredVolumeM3: 150})
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.LessOrEqual(t, len(res.Alternatives), 5)
	for _, alt := range res.Alternatives {
		assert.GreaterOrEqual(t, alt.Cost.TotalCost, res.Best.Cost.TotalCost)

		// Alternatives are feasible too.
		v := alt.LengthM * alt.WidthM * alt.HeightM
		assert.GreaterOrEqual(t, v, 0.95*150.0)
		assert.LessOrEqual(t, v, 1.5*150.0)
	}
}

func TestOptimizeRespectsRatioBounds(t *testing.T) {
	res, _, err := Optimize(Input{
		RequiredVolumeM3: 120,
		Config:           Config{MinRatioLW: 1.5, MaxRatioLW: 2.0},
	})
	require.NoError(t, err)
	require.True(t, res.Feasible)
	ratio := res.Best.LengthM / res.Best.WidthM
	assert.GreaterOrEqual(t, ratio, 1.5)
	assert.LessOrEqual(t, ratio, 2.0)
}

func TestOptimizeHydraulicConstraints(t *testing.T) {
	res, _, err := Optimize(Input{
		RequiredVolumeM3: 300,
		FlowRateM3Day:    2000,
		Config:           Config{MaxSurfaceLoading: 30, MinRetentionH: 2},
	})
	require.NoError(t, err)
	require.True(t, res.Feasible)

	surface := 2000.0 / (res.Best.LengthM * res.Best.WidthM)
	assert.LessOrEqual(t, surface, 30.0)
	retention := res.Best.VolumeM3 / 2000.0 * 24
	assert.GreaterOrEqual(t, retention, 2.0)
}

func TestOptimizeReportsInfeasibilityExplicitly(t *testing.T) {
	// The volume fits, but the surface-loading cap cannot be met within
	// the dimension bounds.
	res, logRec, err := Optimize(Input{
		RequiredVolumeM3: 50,
		FlowRateM3Day:    100000,
		Config:           Config{MaxSurfaceLoading: 10},
	})
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.NotEmpty(t, res.Message)
	assert.Zero(t, res.Best.VolumeM3, "no default sizing may be substituted")
	assert.False(t, logRec.CanExport)
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	_, _, err := Optimize(Input{RequiredVolumeM3: 0})
	assert.Error(t, err)

	_, _, err = Optimize(Input{RequiredVolumeM3: 10, FlowRateM3Day: -1})
	assert.Error(t, err)
}

func TestCostModelGrowsWithDepth(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()
	shallow := costModel(10, 7, 3, cfg)
	deep := costModel(10, 7, 6, cfg)
	assert.Greater(t, deep.TotalCost, shallow.TotalCost)
	assert.Greater(t, deep.SteelKg/deep.ConcreteM3, shallow.SteelKg/shallow.ConcreteM3)
}

package tankdesign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AquaTrace/internal/calclog"
	"AquaTrace/internal/optimizer"
	"AquaTrace/internal/safety"
)

// A 10x10x6 settling tank at 6500 m3/day loads the surface at 65
// against a 60 limit: the run must be blocked by exactly that one
// critical violation, and an override with a proper justification
// must unblock it.
func TestDesignSurfaceLoadingGate(t *testing.T) {
	svc := safety.NewService()
	in := Input{
		LengthM:           10,
		WidthM:            10,
		HeightM:           6,
		FlowRateM3Day:     6500,
		MaxSurfaceLoading: 60,
	}

	res, logRec, err := Design(in, svc)
	require.NoError(t, err)

	assert.InDelta(t, 65.0, res.SurfaceLoading, 1e-9)
	assert.False(t, res.Gate.CanExport)
	assert.False(t, logRec.CanExport)

	var criticals []*calclog.Violation
	for _, v := range logRec.Violations {
		if v.Severity == calclog.SeverityCritical {
			criticals = append(criticals, v)
		}
	}
	require.Len(t, criticals, 1)
	assert.Equal(t, "surface_loading_max", criticals[0].Parameter)

	short := strings.Repeat("x", 40)
	_, err = svc.RequestOverride(logRec, criticals[0].ID, short, "eng-1", "Nguyen Van A", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason too short")
	assert.False(t, logRec.CanExport)

	long := strings.Repeat("approved temporary overload during commissioning ", 2)
	require.GreaterOrEqual(t, len(long), 50)
	rec, err := svc.RequestOverride(logRec, criticals[0].ID, long, "chief-1", "Tran Thi B", "MEMO-2026-014")
	require.NoError(t, err)
	assert.Equal(t, safety.LevelChiefEngineer, rec.Level)

	assert.True(t, logRec.CanExport)
	assert.True(t, svc.CheckCalculationLog(logRec).CanExport)
}

func TestDesignWithOptimizer(t *testing.T) {
	svc := safety.NewService()
	res, logRec, err := Design(Input{
		RequiredVolumeM3: 500,
		FlowRateM3Day:    3000,
		OptimizerConfig:  optimizer.Config{MaxHeightM: 6},
	}, svc)
	require.NoError(t, err)

	require.True(t, res.Feasible)
	require.NotNil(t, res.Optimization)
	assert.Equal(t, res.Optimization.Best.LengthM, res.LengthM)
	assert.Greater(t, res.VolumeM3, 0.0)
	assert.LessOrEqual(t, res.SurfaceLoading, 40.0)
	assert.GreaterOrEqual(t, res.RetentionH, 2.0)
	assert.NotEmpty(t, res.Wall.GoverningCase)
	assert.NotEmpty(t, logRec.Steps)
	assert.True(t, res.Gate.CanExport)
}

func TestDesignOptimizerInfeasible(t *testing.T) {
	svc := safety.NewService()
	res, logRec, err := Design(Input{
		RequiredVolumeM3:  50,
		FlowRateM3Day:     100000,
		MaxSurfaceLoading: 10,
	}, svc)
	require.NoError(t, err)

	assert.False(t, res.Feasible)
	assert.NotEmpty(t, res.Message)
	assert.False(t, logRec.CanExport)
	assert.False(t, res.Gate.CanExport)
}

func TestDesignStabilityRuns(t *testing.T) {
	svc := safety.NewService()
	res, _, err := Design(Input{
		LengthM:          8,
		WidthM:           6,
		HeightM:          4,
		GroundwaterHeadM: 1.0,
		SoilDepthM:       3,
		GammaSoil:        18,
		PhiDeg:           30,
	}, svc)
	require.NoError(t, err)
	require.NotNil(t, res.Stability)
	assert.Greater(t, res.Stability.UpliftSF, 0.0)
	assert.Greater(t, res.Stability.SlidingSF, 0.0)
}

func TestDesignInputValidation(t *testing.T) {
	svc := safety.NewService()

	_, _, err := Design(Input{LengthM: 10, HeightM: 4}, svc)
	assert.Error(t, err)

	_, _, err = Design(Input{}, svc)
	assert.Error(t, err)

	_, _, err = Design(Input{RequiredVolumeM3: 100}, nil)
	assert.Error(t, err)
}

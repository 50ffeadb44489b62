package crackwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AquaTrace/internal/calclog"
)

func baseInput() Input {
	return Input{
		MomentKNm:     30,
		WidthMM:       1000,
		HeightMM:      300,
		CoverMM:       40,
		BarDiameterMM: 16,
		AsMM2:         1200,
		ConcreteGrade: "B25",
		SteelGrade:    "CB400-V",
		Exposure:      "W",
		LongTerm:      true,
	}
}

func TestCrackWidthGoverningIsTheLarger(t *testing.T) {
	res, logRec, err := Check(baseInput())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.GoverningMM, res.TCVNWidthMM)
	assert.GreaterOrEqual(t, res.GoverningMM, res.EurocodeWidthMM)
	assert.NotEmpty(t, logRec.Steps)
}

func TestCrackWidthNonIncreasingInSteelArea(t *testing.T) {
	in := baseInput()
	prev := -1.0
	for as := 400.0; as <= 4000; as += 100 {
		in.AsMM2 = as
		res, _, err := Check(in)
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, res.GoverningMM, prev+1e-12, "a_cr grew when As rose to %g", as)
		}
		prev = res.GoverningMM
	}
}

func TestCrackWidthStatusBands(t *testing.T) {
	// Heavy reinforcement keeps the width well under the limit.
	in := baseInput()
	in.AsMM2 = 4000
	res, logRec, err := Check(in)
	require.NoError(t, err)
	assert.Equal(t, StatusPass, res.Status)
	assert.True(t, logRec.CanExport)

	// Light reinforcement under a big moment fails and blocks export.
	in.AsMM2 = 400
	in.MomentKNm = 60
	res, logRec, err = Check(in)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, res.Status)
	assert.False(t, logRec.CanExport)
	require.Len(t, logRec.Violations, 1)
	assert.Equal(t, calclog.SeverityCritical, logRec.Violations[0].Severity)
	assert.Equal(t, "crack_width_max", logRec.Violations[0].Parameter)
}

func TestCrackWidthInputValidation(t *testing.T) {
	in := baseInput()
	in.CoverMM = 400 // swallows the whole section
	_, _, err := Check(in)
	assert.Error(t, err)

	in = baseInput()
	in.ConcreteGrade = "B99"
	_, _, err = Check(in)
	assert.Error(t, err)
}

func TestDesignForCrackControlFindsMinimumSteel(t *testing.T) {
	res, logRec, err := DesignForCrackControl(DesignInput{
		MomentKNm:     30,
		HeightMM:      300,
		CoverMM:       40,
		ConcreteGrade: "B25",
		SteelGrade:    "CB400-V",
		Exposure:      "W",
		LongTerm:      true,
	})
	require.NoError(t, err)
	require.True(t, res.Feasible)
	assert.True(t, logRec.CanExport)
	assert.GreaterOrEqual(t, res.SpacingMM, 80.0)
	assert.LessOrEqual(t, res.SpacingMM, 300.0)
	assert.LessOrEqual(t, res.CrackWidthMM, res.LimitMM)

	// The selected combination really passes a direct check.
	verify, _, err := Check(Input{
		MomentKNm:     30,
		WidthMM:       1000,
		HeightMM:      300,
		CoverMM:       40,
		BarDiameterMM: res.BarDiameterMM,
		AsMM2:         res.AsMM2,
		ConcreteGrade: "B25",
		SteelGrade:    "CB400-V",
		Exposure:      "W",
		LongTerm:      true,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, verify.GoverningMM, res.LimitMM)
}

func TestDesignForCrackControlReportsInfeasibility(t *testing.T) {
	// A thin section under a huge moment cannot be fixed by bars alone.
	res, logRec, err := DesignForCrackControl(DesignInput{
		MomentKNm:     500,
		HeightMM:      150,
		CoverMM:       40,
		ConcreteGrade: "B15",
		SteelGrade:    "CB240-T",
		Exposure:      "A",
		LongTerm:      true,
	})
	require.NoError(t, err)
	assert.False(t, res.Feasible)
	assert.NotEmpty(t, res.Message)
	assert.False(t, logRec.CanExport)
}

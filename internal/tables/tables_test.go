package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaterViscosityClampsAndInterpolates(t *testing.T) {
	// Below and above the tabulated range the endpoints are returned.
	assert.InDelta(t, 1.787e-6, WaterViscosity(-10), 1e-12)
	assert.InDelta(t, 0.475e-6, WaterViscosity(95), 1e-12)

	// Tabulated points are hit exactly.
	assert.InDelta(t, 1.004e-6, WaterViscosity(20), 1e-12)

	// Midpoints are linear between neighbours.
	want := (1.004e-6 + 0.893e-6) / 2
	assert.InDelta(t, want, WaterViscosity(22.5), 1e-12)
}

func TestManningRoughness(t *testing.T) {
	n, err := ManningRoughness("concrete")
	require.NoError(t, err)
	assert.Equal(t, 0.013, n)

	_, err = ManningRoughness("unobtainium")
	assert.Error(t, err)
}

func TestMaterialClasses(t *testing.T) {
	c, err := Concrete("B25")
	require.NoError(t, err)
	assert.Equal(t, 14.5, c.Rb)

	s, err := Steel("CB400-V")
	require.NoError(t, err)
	assert.Equal(t, 350.0, s.Rs)

	_, err = Concrete("B99")
	assert.Error(t, err)
}

func TestExposureCarriesLimit(t *testing.T) {
	e, err := Exposure("W")
	require.NoError(t, err)
	assert.Equal(t, 0.20, e.CrackLimitMM)
	assert.NotEmpty(t, e.Description)

	_, err = Exposure("Z")
	assert.Error(t, err)
}

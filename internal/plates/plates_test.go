package plates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupClampsAtTableEnds(t *testing.T) {
	for family, rows := range families {
		lo, err := Lookup(family, rows[0].Ratio/2)
		require.NoError(t, err)
		assert.Equal(t, rows[0].C, lo, "family %s below min", family)

		hi, err := Lookup(family, rows[len(rows)-1].Ratio*2)
		require.NoError(t, err)
		assert.Equal(t, rows[len(rows)-1].C, hi, "family %s above max", family)
	}
}

func TestLookupHitsTabulatedRows(t *testing.T) {
	for family, rows := range families {
		for _, row := range rows {
			got, err := Lookup(family, row.Ratio)
			require.NoError(t, err)
			assert.InDelta(t, row.C.AlphaX, got.AlphaX, 1e-12, "family %s ratio %g", family, row.Ratio)
			assert.InDelta(t, row.C.BetaY, got.BetaY, 1e-12)
		}
	}
}

func TestLookupIsLinearBetweenRows(t *testing.T) {
	rows := families[Slab4Fixed]
	for i := 0; i+1 < len(rows); i++ {
		lo, hi := rows[i], rows[i+1]
		mid := (lo.Ratio + hi.Ratio) / 2
		got, err := Lookup(Slab4Fixed, mid)
		require.NoError(t, err)
		assert.InDelta(t, (lo.C.AlphaX+hi.C.AlphaX)/2, got.AlphaX, 1e-12)
		assert.InDelta(t, (lo.C.AlphaY+hi.C.AlphaY)/2, got.AlphaY, 1e-12)
		assert.InDelta(t, (lo.C.BetaX+hi.C.BetaX)/2, got.BetaX, 1e-12)
		assert.InDelta(t, (lo.C.BetaY+hi.C.BetaY)/2, got.BetaY, 1e-12)
	}
}

func TestLookupRejectsBadInput(t *testing.T) {
	_, err := Lookup("slab_levitating", 1.0)
	assert.Error(t, err)

	_, err = Lookup(Slab4Fixed, 0)
	assert.Error(t, err)
}

func TestMomentsScaleWithLoadAndSpan(t *testing.T) {
	ms, step, err := Moments(Wall3Fixed1Free, 1.0, 50, 3.0)
	require.NoError(t, err)
	require.NotNil(t, step)

	c, _ := Lookup(Wall3Fixed1Free, 1.0)
	assert.InDelta(t, c.AlphaX*50*9, ms.SpanX, 1e-9)
	assert.InDelta(t, c.BetaX*50*9, ms.SupportX, 1e-9)

	// Doubling q doubles every moment.
	ms2, _, err := Moments(Wall3Fixed1Free, 1.0, 100, 3.0)
	require.NoError(t, err)
	assert.InDelta(t, 2*ms.SpanY, ms2.SpanY, 1e-9)
}

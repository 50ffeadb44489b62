package safety

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AquaTrace/internal/calclog"
)

func logWithCritical() (*calclog.Log, *calclog.Violation) {
	l := calclog.NewLog("hydraulic", "tank_design", "")
	v := calclog.NewViolation("surface_loading_max", 65, 60, calclog.LimitMax,
		calclog.SeverityCritical, "TCVN 7957:2008", "surface loading above limit")
	l.AddViolation(v)
	return l, v
}

func TestApprovalLevelMapping(t *testing.T) {
	assert.Equal(t, LevelEngineer, ApprovalLevelFor(calclog.SeverityInfo))
	assert.Equal(t, LevelEngineer, ApprovalLevelFor(calclog.SeverityMinor))
	assert.Equal(t, LevelSeniorEngineer, ApprovalLevelFor(calclog.SeverityMajor))
	assert.Equal(t, LevelChiefEngineer, ApprovalLevelFor(calclog.SeverityCritical))
}

func TestCheckCalculationLogBlocksOnCritical(t *testing.T) {
	s := NewService()
	l, _ := logWithCritical()
	l.AddViolation(calclog.NewViolation("spacing", 310, 300, calclog.LimitMax,
		calclog.SeverityMinor, "TCVN 5574:2018", "spacing slightly above limit"))

	res := s.CheckCalculationLog(l)
	assert.False(t, res.CanExport)
	require.Len(t, res.BlockReasons, 1)
	assert.Contains(t, res.BlockReasons[0], "surface_loading_max")
	assert.Equal(t, 1, res.ViolationCounts["critical"])
	assert.Equal(t, 1, res.ViolationCounts["minor"])
}

func TestRequestOverrideJustificationLength(t *testing.T) {
	s := NewService()
	l, v := logWithCritical()

	// 40 characters: rejected, no partial mutation.
	short := strings.Repeat("x", 40)
	_, err := s.RequestOverride(l, v.ID, short, "eng-7", "T. Nguyen", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reason too short")
	assert.False(t, v.IsOverridden)
	assert.False(t, l.CanExport)
	assert.Empty(t, s.History(l.ID))

	// 60 characters: accepted, export unblocked.
	long := strings.Repeat("y", 60)
	rec, err := s.RequestOverride(l, v.ID, long, "chief-1", "H. Tran", "memo-2026-014")
	require.NoError(t, err)
	assert.True(t, v.IsOverridden)
	assert.True(t, l.CanExport)
	assert.Equal(t, LevelChiefEngineer, rec.Level)
	assert.Equal(t, l.ID, rec.LogID)
	require.Len(t, s.History(l.ID), 1)
}

func TestRequestOverrideUnknownViolation(t *testing.T) {
	s := NewService()
	l, _ := logWithCritical()
	_, err := s.RequestOverride(l, "nope", strings.Repeat("z", 60), "eng-1", "A. Pham", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown violation")
	assert.False(t, l.CanExport)
}

func TestRequestOverrideTwiceRejected(t *testing.T) {
	s := NewService()
	l, v := logWithCritical()
	reason := strings.Repeat("a", 60)
	_, err := s.RequestOverride(l, v.ID, reason, "chief-1", "H. Tran", "")
	require.NoError(t, err)
	_, err = s.RequestOverride(l, v.ID, reason, "chief-1", "H. Tran", "")
	assert.Error(t, err)
	assert.Len(t, s.History(l.ID), 1)
}

func TestExportStaysBlockedWithSecondCritical(t *testing.T) {
	s := NewService()
	l, v := logWithCritical()
	l.AddViolation(calclog.NewViolation("uplift_sf_min", 1.0, 1.2, calclog.LimitMin,
		calclog.SeverityCritical, "TCVN 9152:2012", "uplift below minimum"))

	_, err := s.RequestOverride(l, v.ID, strings.Repeat("b", 60), "chief-1", "H. Tran", "")
	require.NoError(t, err)
	assert.False(t, l.CanExport, "second unresolved critical must keep export blocked")
}

func TestHistoryIsPerLogAndConcurrencySafe(t *testing.T) {
	s := NewService()
	var wg sync.WaitGroup
	logs := make([]*calclog.Log, 20)
	for i := range logs {
		l, v := logWithCritical()
		logs[i] = l
		wg.Add(1)
		go func(l *calclog.Log, id string) {
			defer wg.Done()
			_, err := s.RequestOverride(l, id, strings.Repeat("c", 64), "chief-1", "H. Tran", "")
			assert.NoError(t, err)
		}(l, v.ID)
	}
	wg.Wait()
	for _, l := range logs {
		assert.Len(t, s.History(l.ID), 1)
	}
}

package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestPipeFlowBatch(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"label", "diameter_m", "fill_ratio", "slope", "slope_unit", "material", "temp_c", "length_m"},
		{"P1", 0.3, 0.6, 5.0, "permille", "concrete"},
		{"P2", 0.5, 0.7, 0.8, "percent", "pvc", 15.0, 120.0},
	})

	batch, err := PipeFlowBatch(buf)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Count)
	require.Len(t, batch.Results, 2)
	assert.Empty(t, batch.Skipped)

	p1 := batch.Results[0]
	assert.Equal(t, 2, p1.Row)
	assert.Equal(t, "P1", p1.Label)
	assert.Greater(t, p1.Result.VelocityMS, 0.0)

	p2 := batch.Results[1]
	assert.Equal(t, "P2", p2.Label)
	assert.Greater(t, p2.Result.TotalHeadLossM, 0.0)
}

func TestPipeFlowBatchSkipsBadRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"label", "diameter_m", "fill_ratio", "slope"},
		{"bad-diameter", "not a number", 0.6, 5.0},
		{"bad-fill", 0.3, 1.4, 5.0},
		{"short"},
		{"ok", 0.3, 0.6, 0.005, "decimal"},
	})

	batch, err := PipeFlowBatch(buf)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Count)
	require.Len(t, batch.Skipped, 3)
	assert.Equal(t, 2, batch.Skipped[0].Row)
	assert.Contains(t, batch.Skipped[0].Message, "diameter")
	assert.Equal(t, "ok", batch.Results[0].Label)
	assert.Equal(t, 5, batch.Results[0].Row)
}

func TestPipeFlowBatchEmptySheet(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"label", "diameter_m", "fill_ratio", "slope"},
	})

	_, err := PipeFlowBatch(buf)
	assert.Error(t, err)
}

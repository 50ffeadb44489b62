package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AquaTrace/internal/calclog"
)

func sampleLog() *calclog.Log {
	l := calclog.NewLog("hydraulics", "pipe_flow", "demo run")
	l.AddStep(calclog.NewStep("velocity", "V = (1/n)*R^(2/3)*S^(1/2)", map[string]calclog.InputValue{
		"R": {Value: 0.2, Unit: "m"},
		"S": {Value: 0.005, Unit: "m/m"},
	}, 1.86, "m/s"))
	l.SetResult("velocity_ms", 1.86)
	return l
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Meta{Project: "WWTP Binh Hung", Author: "Nguyen Van A"}, sampleLog())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestWriteBlockedByCriticalViolation(t *testing.T) {
	l := sampleLog()
	l.AddViolation(calclog.NewViolation("velocity_max", 9.7, 4.0, calclog.LimitMax,
		calclog.SeverityCritical, "TCVN 7957:2008", "velocity above the erosion limit"))

	var buf bytes.Buffer
	err := Write(&buf, Meta{}, l)
	require.ErrorIs(t, err, ErrExportBlocked)
	assert.Zero(t, buf.Len())
}

func TestWriteAfterOverride(t *testing.T) {
	l := sampleLog()
	v := calclog.NewViolation("velocity_max", 9.7, 4.0, calclog.LimitMax,
		calclog.SeverityCritical, "TCVN 7957:2008", "velocity above the erosion limit")
	l.AddViolation(v)
	require.NoError(t, v.Override("short steep drop section, lining upgraded to steel per detail drawing", "Tran Thi B", time.Now()))
	l.Reevaluate()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Meta{}, l))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF"))
}

func TestGenerateHandlerConflict(t *testing.T) {
	l := sampleLog()
	l.AddViolation(calclog.NewViolation("velocity_max", 9.7, 4.0, calclog.LimitMax,
		calclog.SeverityCritical, "TCVN 7957:2008", "velocity above the erosion limit"))

	body, err := json.Marshal(request{Meta: Meta{Title: "Blocked"}, Log: l})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report", bytes.NewReader(body))
	(&Handler{}).Generate(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateHandlerOK(t *testing.T) {
	body, err := json.Marshal(request{Meta: Meta{Title: "OK"}, Log: sampleLog()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report", bytes.NewReader(body))
	(&Handler{}).Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

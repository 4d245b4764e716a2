package testutil

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLogCapture(t *testing.T) {
	logger, logs := NewCaptureLogger(t)

	logger.With(slog.String("component", "test")).
		WithGroup("req").
		Info("request completed", slog.Int("status", 200))
	logger.Error("boom")

	records := logs.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "test", records[0].Attrs["component"])
	assert.Equal(t, int64(200), records[0].Attrs["req.status"])

	r := AssertLogged(t, logs, slog.LevelInfo, "completed")
	assert.Equal(t, "request completed", r.Message)

	_, ok := logs.Find(slog.LevelWarn, "boom")
	assert.False(t, ok)
}

func TestWriteWorkbook(t *testing.T) {
	path := WriteWorkbook(t, "fixture.xlsx",
		Sheet{Name: "Billed_2025", Rows: [][]any{{"Resource", "Allocated Days 2025"}, {"Ana", 10}}},
		Sheet{Name: "Milestone Status ", Rows: [][]any{{"Milestone Status"}}},
	)
	assert.Equal(t, "fixture.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Billed_2025", "Milestone Status "}, f.GetSheetList())
	rows, err := f.GetRows("Billed_2025")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Resource", "Allocated Days 2025"}, {"Ana", "10"}}, rows)
}

func TestWorkbookBytes(t *testing.T) {
	data := WorkbookBytes(t)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

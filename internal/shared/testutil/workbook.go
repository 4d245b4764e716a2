package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet fixture: header row first, then data rows.
type Sheet struct {
	Name string
	Rows [][]any
}

func buildWorkbook(t *testing.T, sheets []Sheet) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), s.Name))
		} else {
			_, err := f.NewSheet(s.Name)
			require.NoError(t, err)
		}
		for r := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := s.Rows[r]
			require.NoError(t, f.SetSheetRow(s.Name, cell, &row))
		}
	}
	return f
}

// WriteWorkbook saves the sheets as name inside a fresh temp dir, or at name
// itself when it is absolute, and returns the path. The first sheet replaces
// the default one; with no sheets the workbook keeps only "Sheet1".
func WriteWorkbook(t *testing.T, name string, sheets ...Sheet) string {
	t.Helper()
	f := buildWorkbook(t, sheets)
	defer f.Close()

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.TempDir(), name)
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

// WorkbookBytes is WriteWorkbook without touching the filesystem
func WorkbookBytes(t *testing.T, sheets ...Sheet) []byte {
	t.Helper()
	f := buildWorkbook(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

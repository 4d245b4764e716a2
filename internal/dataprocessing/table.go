package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/floats"
)

// Cell is a single worksheet value.
type Cell struct {
	Raw   string
	Num   float64
	IsNum bool
}

// Blank reports whether the cell holds no value.
func (c Cell) Blank() bool {
	return c.Raw == ""
}

func newCell(raw string) Cell {
	c := Cell{Raw: raw}
	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		c.Num = v
		c.IsNum = true
	}
	return c
}

// Table is one worksheet: a header row followed by data rows.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Cell
}

// NewTable builds a table from a header row and raw data rows.
// Headers are trimmed, rows are padded or truncated to the header width and
// rows without any value are dropped.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for _, raw := range rows {
		row := make([]Cell, len(t.Columns))
		empty := true
		for i := range row {
			if i < len(raw) {
				row[i] = newCell(raw[i])
				if !row[i].Blank() {
					empty = false
				}
			}
		}
		if !empty {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}

// LoadTable reads a worksheet with raw cell values so number formats do not
// interfere with numeric parsing.
func LoadTable(f *excelize.File, sheet string) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewTable(sheet, nil, nil), nil
	}
	return NewTable(sheet, rows[0], rows[1:]), nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Cell returns the cell at row, col.
func (t *Table) Cell(row, col int) Cell {
	return t.Rows[row][col]
}

// Text returns the literal value of a cell.
func (t *Table) Text(row, col int) string {
	return t.Rows[row][col].Raw
}

// Number returns the numeric value of a cell, 0 when blank or not numeric.
func (t *Table) Number(row, col int) float64 {
	c := t.Rows[row][col]
	if c.IsNum {
		return c.Num
	}
	return 0
}

// IsNumeric reports whether every non-blank cell of a column is numeric.
// An all-blank column counts as numeric.
func (t *Table) IsNumeric(col int) bool {
	for _, row := range t.Rows {
		if c := row[col]; !c.Blank() && !c.IsNum {
			return false
		}
	}
	return true
}

// Sum adds up a column over the given rows (all rows when rows is nil).
// A column that is not uniformly numeric sums to 0, and so does a sum that
// overflows to infinity.
func (t *Table) Sum(col int, rows []int) float64 {
	if !t.IsNumeric(col) {
		return 0
	}
	var values []float64
	if rows == nil {
		values = make([]float64, 0, len(t.Rows))
		for _, row := range t.Rows {
			if c := row[col]; c.IsNum {
				values = append(values, c.Num)
			}
		}
	} else {
		values = make([]float64, 0, len(rows))
		for _, r := range rows {
			if c := t.Rows[r][col]; c.IsNum {
				values = append(values, c.Num)
			}
		}
	}
	return finite(floats.Sum(values))
}

// GroupBy groups row indexes by the literal value of a column.
// Keys are returned in first-seen order; blank keys are skipped.
func (t *Table) GroupBy(col int) ([]string, map[string][]int) {
	var keys []string
	groups := make(map[string][]int)
	for i, row := range t.Rows {
		c := row[col]
		if c.Blank() {
			continue
		}
		if _, seen := groups[c.Raw]; !seen {
			keys = append(keys, c.Raw)
		}
		groups[c.Raw] = append(groups[c.Raw], i)
	}
	return keys, groups
}

// CountBy returns how often each non-blank value of a column occurs.
func (t *Table) CountBy(col int) map[string]int {
	counts := make(map[string]int)
	for _, row := range t.Rows {
		if c := row[col]; !c.Blank() {
			counts[c.Raw]++
		}
	}
	return counts
}

// SumBy sums valueCol per distinct value of keyCol.
func (t *Table) SumBy(keyCol, valueCol int) map[string]float64 {
	keys, groups := t.GroupBy(keyCol)
	sums := make(map[string]float64, len(keys))
	for _, k := range keys {
		sums[k] = t.Sum(valueCol, groups[k])
	}
	return sums
}

// rate returns 100*num/den, or 0 when den is not positive or the result
// is not finite.
func rate(num, den float64) float64 {
	if den > 0 {
		return finite(num / den * 100)
	}
	return 0
}

// finite maps NaN and ±Inf to 0; encoding/json rejects them.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

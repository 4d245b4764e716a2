package dataprocessing

import (
	"sort"
	"strings"

	"billingdash/pkg/contracts/domain"
)

// completedMarker is matched as a substring so labels such as "Completed" and
// "100% Complete" count. A label like "Incomplete" matches as well.
const completedMarker = "complete"

// AggregateMilestones computes the milestone status distribution, the
// completion rate and the project type × status cross-tabulation.
func AggregateMilestones(t *Table, cols ColumnMap) *domain.MetricsModel {
	out := &domain.MetricsModel{}
	statusIdx, ok := cols.Index(RoleMilestoneStatus)
	if !ok || t.Empty() {
		return out
	}

	out.MilestoneCounts = t.CountBy(statusIdx)

	completed := 0
	for i := range t.Rows {
		if strings.Contains(strings.ToLower(t.Text(i, statusIdx)), completedMarker) {
			completed++
		}
	}
	out.MilestoneCompletionRate = domain.Some(rate(float64(completed), float64(t.Len())))

	if typeIdx, ok := cols.Index(RoleProjectType); ok {
		out.MilestoneByType = crossTab(t, typeIdx, statusIdx)
	}

	return out
}

// crossTab builds a dense count table. Both axes hold every distinct non-blank
// value seen in the sheet, sorted, and every combination starts at zero.
func crossTab(t *Table, rowCol, colCol int) *domain.MilestoneCrossTab {
	rowKeys, _ := t.GroupBy(rowCol)
	colKeys, _ := t.GroupBy(colCol)
	sort.Strings(rowKeys)
	sort.Strings(colKeys)

	data := make(map[string]map[string]int, len(rowKeys))
	for _, r := range rowKeys {
		data[r] = make(map[string]int, len(colKeys))
		for _, c := range colKeys {
			data[r][c] = 0
		}
	}

	for _, row := range t.Rows {
		r, c := row[rowCol], row[colCol]
		if r.Blank() || c.Blank() {
			continue
		}
		data[r.Raw][c.Raw]++
	}

	return &domain.MilestoneCrossTab{
		ProjectTypes: nonNil(rowKeys),
		StatusTypes:  nonNil(colKeys),
		Data:         data,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package dataprocessing

import (
	"sort"

	"billingdash/pkg/contracts/domain"
)

// AggregateComparison compares project-plan utilised days with Zoho utilised
// days, overall and per department. Both columns must resolve.
func AggregateComparison(t *Table, cols ColumnMap) *domain.MetricsModel {
	out := &domain.MetricsModel{}
	ppIdx, hasPP := cols.Index(RoleUtilizedDaysProjectPlan)
	zohoIdx, hasZoho := cols.Index(RoleZohoUtilizedDays)
	if !hasPP || !hasZoho || t.Empty() {
		return out
	}

	if deptIdx, ok := cols.Index(RoleDepartment); ok {
		out.DeptComparison = compareByDepartment(
			t.SumBy(deptIdx, ppIdx),
			t.SumBy(deptIdx, zohoIdx),
		)
	}

	out.TotalPPUtilized = domain.Some(t.Sum(ppIdx, nil))
	out.TotalZohoUtilized = domain.Some(t.Sum(zohoIdx, nil))
	return out
}

// compareByDepartment merges two per-department sums on the union of their
// keys. A department missing from one side gets 0 there.
func compareByDepartment(primary, secondary map[string]float64) []domain.DeptComparison {
	depts := make([]string, 0, len(primary)+len(secondary))
	for d := range primary {
		depts = append(depts, d)
	}
	for d := range secondary {
		if _, ok := primary[d]; !ok {
			depts = append(depts, d)
		}
	}
	sort.Strings(depts)

	out := make([]domain.DeptComparison, 0, len(depts))
	for _, d := range depts {
		out = append(out, domain.DeptComparison{
			Department:     d,
			PrimaryTotal:   primary[d],
			SecondaryTotal: secondary[d],
		})
	}
	return out
}

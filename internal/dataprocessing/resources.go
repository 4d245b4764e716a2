package dataprocessing

import (
	"sort"

	"billingdash/pkg/contracts/domain"
)

// UnknownDepartment groups resources without a department.
const UnknownDepartment = "Unknown"

// resourceColumns holds the optional columns the resource view reads.
type resourceColumns struct {
	dept, role, engagement     int
	hasDept, hasRole, hasEng   bool
	alloc, util, zoho          int
	hasAlloc, hasUtil, hasZoho bool
	// per-row figures are only reported for uniformly numeric columns
	allocNum, utilNum, zohoNum bool
}

func newResourceColumns(t *Table, cols ColumnMap) resourceColumns {
	var rc resourceColumns
	rc.dept, rc.hasDept = cols.Index(RoleDepartment)
	rc.role, rc.hasRole = cols.Index(RolePersonRole)
	rc.engagement, rc.hasEng = cols.Index(RoleEngagementType)
	rc.alloc, rc.hasAlloc = cols.Index(RoleAllocatedDays)
	rc.util, rc.hasUtil = cols.Index(RoleUtilizedDaysProjectPlan)
	rc.zoho, rc.hasZoho = cols.Index(RoleZohoUtilizedDays)
	rc.allocNum = rc.hasAlloc && t.IsNumeric(rc.alloc)
	rc.utilNum = rc.hasUtil && t.IsNumeric(rc.util)
	rc.zohoNum = rc.hasZoho && t.IsNumeric(rc.zoho)
	return rc
}

// AggregateResources builds one record per person with their project
// assignments. It needs both a resource and a project column.
func AggregateResources(t *Table, cols ColumnMap) *domain.MetricsModel {
	out := &domain.MetricsModel{}
	resIdx, hasRes := cols.Index(RoleResource)
	projIdx, hasProj := cols.Index(RoleProjectName)
	if !hasRes || !hasProj || t.Empty() {
		return out
	}

	rc := newResourceColumns(t, cols)
	names, groups := t.GroupBy(resIdx)

	records := make([]domain.ResourceRecord, 0, len(names))
	for _, name := range names {
		records = append(records, buildResource(t, rc, name, projIdx, groups[name]))
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	byDept := make(map[string][]string)
	for _, rec := range records {
		dept := rec.Department.Or("")
		if dept == "" {
			dept = UnknownDepartment
		}
		byDept[dept] = append(byDept[dept], rec.Name)
	}

	out.Resources = records
	out.TotalResources = domain.Some(len(records))
	out.ResourcesByDepartment = byDept
	return out
}

// buildResource aggregates the rows of one person. Department and role come
// from the first row; conflicting values on later rows are ignored.
func buildResource(t *Table, rc resourceColumns, name string, projIdx int, rows []int) domain.ResourceRecord {
	rec := domain.ResourceRecord{
		Name:     name,
		Projects: make([]domain.ProjectAssignment, 0, len(rows)),
	}

	first := rows[0]
	if rc.hasDept {
		rec.Department = optText(t, first, rc.dept)
	}
	if rc.hasRole {
		rec.Role = optText(t, first, rc.role)
	}

	if rc.hasAlloc {
		rec.TotalAllocated = domain.Some(t.Sum(rc.alloc, rows))
	}
	allocated := rec.TotalAllocated.Or(0)
	if rc.hasUtil {
		utilized := t.Sum(rc.util, rows)
		rec.TotalUtilized = domain.Some(utilized)
		rec.UtilizationRate = domain.Some(rate(utilized, allocated))
	}
	if rc.hasZoho {
		zoho := t.Sum(rc.zoho, rows)
		rec.TotalZohoUtilized = domain.Some(zoho)
		rec.ZohoUtilizationRate = domain.Some(rate(zoho, allocated))
	}

	for _, row := range rows {
		rec.Projects = append(rec.Projects, buildAssignment(t, rc, row, projIdx))
	}
	return rec
}

// buildAssignment describes a single row. Rates use the row's own allocation.
func buildAssignment(t *Table, rc resourceColumns, row, projIdx int) domain.ProjectAssignment {
	p := domain.ProjectAssignment{Name: t.Text(row, projIdx)}
	if rc.hasEng {
		p.EngagementType = optText(t, row, rc.engagement)
	}

	var allocated float64
	if rc.allocNum {
		allocated = t.Number(row, rc.alloc)
		p.Allocated = domain.Some(allocated)
	}
	if rc.utilNum {
		utilized := t.Number(row, rc.util)
		p.Utilized = domain.Some(utilized)
		p.ProjectUtilization = domain.Some(rate(utilized, allocated))
	}
	if rc.zohoNum {
		zoho := t.Number(row, rc.zoho)
		p.ZohoUtilized = domain.Some(zoho)
		p.ZohoUtilization = domain.Some(rate(zoho, allocated))
	}
	return p
}

// optText returns the cell text, or null for a blank cell.
func optText(t *Table, row, col int) domain.Opt[string] {
	if c := t.Cell(row, col); !c.Blank() {
		return domain.Some(c.Raw)
	}
	return domain.Null[string]()
}

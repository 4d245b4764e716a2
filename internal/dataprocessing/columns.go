package dataprocessing

import (
	"slices"
	"strings"
)

// Role is a semantic field the pipeline looks up in a table header.
type Role int

const (
	RoleAllocatedDays Role = iota
	RoleUtilizedDaysProjectPlan
	RoleRemainingDaysProjectPlan
	RoleZohoUtilizedDays
	RoleZohoRemainingDays
	RoleBillingStatus
	RoleDepartment
	RoleResource
	RoleProjectName
	RolePersonRole
	RoleEngagementType
	RoleMilestoneStatus
	RoleProjectType
	RoleBillingProjectRef
	RoleMilestoneProjectRef
)

var roleNames = map[Role]string{
	RoleAllocatedDays:            "allocated_days_2025",
	RoleUtilizedDaysProjectPlan:  "utilized_days_project_plan_2025",
	RoleRemainingDaysProjectPlan: "remaining_days_project_plan_2025",
	RoleZohoUtilizedDays:         "zoho_utilized_days_2025",
	RoleZohoRemainingDays:        "zoho_remaining_days_2025",
	RoleBillingStatus:            "billing_status",
	RoleDepartment:               "department",
	RoleResource:                 "resource",
	RoleProjectName:              "project_name",
	RolePersonRole:               "role",
	RoleEngagementType:           "engagement_type",
	RoleMilestoneStatus:          "milestone_status",
	RoleProjectType:              "project_type",
	RoleBillingProjectRef:        "billing_project_ref",
	RoleMilestoneProjectRef:      "milestone_project_ref",
}

// String returns the snake_case name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Clause matches a lower-cased, trimmed header when every Contains term is a
// substring, no Excludes term is, and (if OneOf is set) the header equals one
// of its entries.
type Clause struct {
	Contains []string
	Excludes []string
	OneOf    []string
}

func (c Clause) matches(header string) bool {
	if len(c.OneOf) > 0 && !slices.Contains(c.OneOf, header) {
		return false
	}
	for _, term := range c.Contains {
		if !strings.Contains(header, term) {
			return false
		}
	}
	for _, term := range c.Excludes {
		if strings.Contains(header, term) {
			return false
		}
	}
	return true
}

// Rule matches a header when any of its clauses does.
type Rule []Clause

// Matches reports whether header satisfies the rule. Case and surrounding
// whitespace are ignored; an empty header never matches.
func (r Rule) Matches(header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return false
	}
	for _, c := range r {
		if c.matches(h) {
			return true
		}
	}
	return false
}

// Rules is the resolution table. Metric columns need the metric keyword, the
// year and a source marker to tell project-plan and Zoho figures apart.
var Rules = map[Role]Rule{
	RoleAllocatedDays:            {{Contains: []string{"allocated", "2025"}}},
	RoleUtilizedDaysProjectPlan:  {{Contains: []string{"utilized", "2025", "project plan"}}},
	RoleRemainingDaysProjectPlan: {{Contains: []string{"remaining", "2025", "project plan"}}},
	RoleZohoUtilizedDays:         {{Contains: []string{"zoho", "days", "2025"}, Excludes: []string{"remaining"}}},
	RoleZohoRemainingDays:        {{Contains: []string{"remaining", "zoho", "2025"}}},
	RoleBillingStatus:            {{Contains: []string{"status"}, Excludes: []string{"milestone"}}},
	RoleDepartment:               {{OneOf: []string{"department", "dept"}}},
	RoleResource:                 {{OneOf: []string{"resource", "resource name", "person"}}},
	RoleProjectName:              {{OneOf: []string{"project name", "project", "project_name"}}},
	RolePersonRole:               {{OneOf: []string{"role", "position", "title"}}},
	RoleEngagementType:           {{Contains: []string{"engagement"}}, {Contains: []string{"type"}}},
	RoleMilestoneStatus:          {{Contains: []string{"milestone", "status"}}},
	RoleProjectType:              {{OneOf: []string{"project type", "project_type", "projecttype"}}},
	RoleBillingProjectRef:        {{Contains: []string{"project", "name"}}},
	RoleMilestoneProjectRef:      {{Contains: []string{"project", "data"}}, {Contains: []string{"project", "name"}}},
}

// Resolve returns the index of the leftmost column matching the role's rule.
func Resolve(columns []string, role Role) (int, bool) {
	rule, ok := Rules[role]
	if !ok {
		return -1, false
	}
	for i, col := range columns {
		if rule.Matches(col) {
			return i, true
		}
	}
	return -1, false
}

// ColumnMap is the resolved role → column mapping of one table.
type ColumnMap struct {
	columns []string
	index   map[Role]int
}

// ResolveColumns evaluates every rule against the table header once.
func ResolveColumns(t *Table) ColumnMap {
	m := ColumnMap{index: make(map[Role]int)}
	if t == nil {
		return m
	}
	m.columns = t.Columns
	for role := range Rules {
		if idx, ok := Resolve(t.Columns, role); ok {
			m.index[role] = idx
		}
	}
	return m
}

// Index returns the column index of a role.
func (m ColumnMap) Index(role Role) (int, bool) {
	idx, ok := m.index[role]
	return idx, ok
}

// Has reports whether a role resolved.
func (m ColumnMap) Has(role Role) bool {
	_, ok := m.index[role]
	return ok
}

// Name returns the header of the column a role resolved to, or "".
func (m ColumnMap) Name(role Role) string {
	if idx, ok := m.index[role]; ok {
		return m.columns[idx]
	}
	return ""
}

// Resolved returns role name → header for every resolved role.
func (m ColumnMap) Resolved() map[string]string {
	out := make(map[string]string, len(m.index))
	for role, idx := range m.index {
		out[role.String()] = m.columns[idx]
	}
	return out
}

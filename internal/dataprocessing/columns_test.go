package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		role    Role
		wantIdx int
		wantOK  bool
	}{
		{
			name:    "allocated days",
			columns: []string{"Resource", "Allocated Days 2025"},
			role:    RoleAllocatedDays,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "allocated without year does not match",
			columns: []string{"Allocated Days"},
			role:    RoleAllocatedDays,
			wantOK:  false,
		},
		{
			name:    "case and whitespace are ignored",
			columns: []string{"  DEPARTMENT  "},
			role:    RoleDepartment,
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "leftmost column wins",
			columns: []string{"Status", "Billing Status"},
			role:    RoleBillingStatus,
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "billing status excludes milestone status",
			columns: []string{"Milestone Status", "Status"},
			role:    RoleBillingStatus,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "zoho utilized skips remaining zoho column",
			columns: []string{"Remaining Zoho Days 2025", "Zoho Utilized Days 2025"},
			role:    RoleZohoUtilizedDays,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "zoho remaining",
			columns: []string{"Zoho Utilized Days 2025", "Remaining Zoho Days 2025"},
			role:    RoleZohoRemainingDays,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "project plan utilized ignores zoho column",
			columns: []string{"Zoho Utilized Days 2025", "Utilized Days 2025 (Project Plan)"},
			role:    RoleUtilizedDaysProjectPlan,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "department requires exact name",
			columns: []string{"Department Head", "Dept"},
			role:    RoleDepartment,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "engagement falls back to any type column",
			columns: []string{"Resource", "Contract Type"},
			role:    RoleEngagementType,
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name:    "milestone project ref accepts project data",
			columns: []string{"Project Data"},
			role:    RoleMilestoneProjectRef,
			wantIdx: 0,
			wantOK:  true,
		},
		{
			name:    "empty header never matches",
			columns: []string{"", "   "},
			role:    RoleEngagementType,
			wantOK:  false,
		},
		{
			name:    "unresolved",
			columns: []string{"Foo", "Bar"},
			role:    RoleResource,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := Resolve(tt.columns, tt.role)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestResolveColumns(t *testing.T) {
	cols := ResolveColumns(table(billingHeader))

	expected := map[Role]string{
		RoleResource:                 "Resource",
		RoleDepartment:               "Department",
		RolePersonRole:               "Role",
		RoleProjectName:              "Project Name",
		RoleEngagementType:           "Engagement Type",
		RoleBillingStatus:            "Status",
		RoleAllocatedDays:            "Allocated Days 2025",
		RoleUtilizedDaysProjectPlan:  "Utilized Days 2025 (Project Plan)",
		RoleRemainingDaysProjectPlan: "Remaining Days 2025 (Project Plan)",
		RoleZohoUtilizedDays:         "Zoho Utilized Days 2025",
		RoleZohoRemainingDays:        "Remaining Zoho Days 2025",
		RoleBillingProjectRef:        "Project Name",
	}
	for role, header := range expected {
		assert.True(t, cols.Has(role), role.String())
		assert.Equal(t, header, cols.Name(role), role.String())
	}

	assert.False(t, cols.Has(RoleMilestoneStatus))
	assert.Equal(t, "", cols.Name(RoleMilestoneStatus))
	assert.Equal(t, "Resource", cols.Resolved()["resource"])
}

func TestResolveColumnsDeterministic(t *testing.T) {
	tbl := table(billingHeader)
	first := ResolveColumns(tbl).Resolved()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ResolveColumns(tbl).Resolved())
	}
}

func TestResolveColumnsNilTable(t *testing.T) {
	cols := ResolveColumns(nil)
	assert.False(t, cols.Has(RoleResource))
	assert.Empty(t, cols.Resolved())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "zoho_utilized_days_2025", RoleZohoUtilizedDays.String())
	assert.Equal(t, "unknown", Role(999).String())
}

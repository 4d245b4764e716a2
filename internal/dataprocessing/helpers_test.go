package dataprocessing

import (
	"testing"

	"billingdash/internal/shared/testutil"
)

// writeWorkbook saves the given sheets into a temporary billing.xlsx.
func writeWorkbook(t *testing.T, sheets ...testutil.Sheet) string {
	t.Helper()
	return testutil.WriteWorkbook(t, "billing.xlsx", sheets...)
}

// table builds an in-memory table from string rows.
func table(header []string, rows ...[]string) *Table {
	return NewTable("test", header, rows)
}

var billingHeader = []string{
	"Resource",
	"Department",
	"Role",
	"Project Name",
	"Engagement Type",
	"Status",
	"Allocated Days 2025",
	"Utilized Days 2025 (Project Plan)",
	"Remaining Days 2025 (Project Plan)",
	"Zoho Utilized Days 2025",
	"Remaining Zoho Days 2025",
}

var milestoneHeader = []string{
	"Project Name",
	"Project Type",
	"Milestone Status",
}

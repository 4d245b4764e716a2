package dataprocessing

import (
	"billingdash/pkg/contracts/domain"
)

// CheckLinkage reports whether both sheets carry a project identifier column.
// It only sets has_linked_data; records are not joined.
func CheckLinkage(billingCols, milestoneCols ColumnMap) *domain.MetricsModel {
	linked := billingCols.Has(RoleBillingProjectRef) && milestoneCols.Has(RoleMilestoneProjectRef)
	return &domain.MetricsModel{HasLinkedData: domain.Some(linked)}
}

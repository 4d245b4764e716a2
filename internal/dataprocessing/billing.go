package dataprocessing

import (
	"billingdash/pkg/contracts/domain"
)

// AggregateBilling computes totals, utilization rates and the status and
// department breakdowns of the billing sheet.
func AggregateBilling(t *Table, cols ColumnMap) *domain.MetricsModel {
	out := &domain.MetricsModel{}
	if t.Empty() {
		return out
	}

	allocIdx, hasAlloc := cols.Index(RoleAllocatedDays)
	utilIdx, hasUtil := cols.Index(RoleUtilizedDaysProjectPlan)
	statusIdx, hasStatus := cols.Index(RoleBillingStatus)
	deptIdx, hasDept := cols.Index(RoleDepartment)

	if hasAlloc {
		out.TotalAllocated = domain.Some(t.Sum(allocIdx, nil))
	}
	if hasUtil {
		out.TotalUtilized = domain.Some(t.Sum(utilIdx, nil))
	}
	if idx, ok := cols.Index(RoleRemainingDaysProjectPlan); ok {
		out.TotalRemaining = domain.Some(t.Sum(idx, nil))
	}
	if idx, ok := cols.Index(RoleZohoUtilizedDays); ok {
		out.TotalZohoUtilized = domain.Some(t.Sum(idx, nil))
	}
	if idx, ok := cols.Index(RoleZohoRemainingDays); ok {
		out.TotalZohoRemaining = domain.Some(t.Sum(idx, nil))
	}

	setBillingRates(out)

	if hasStatus {
		out.StatusCounts = t.CountBy(statusIdx)
		if hasAlloc {
			out.BillingByStatus = t.SumBy(statusIdx, allocIdx)
		}
	}

	if hasDept && hasAlloc {
		deptAllocated := t.SumBy(deptIdx, allocIdx)
		out.DeptBilling = deptAllocated

		if hasUtil {
			deptUtilized := t.SumBy(deptIdx, utilIdx)
			out.DeptUtilRate = make(map[string]float64, len(deptAllocated))
			for dept, allocated := range deptAllocated {
				out.DeptUtilRate[dept] = rate(deptUtilized[dept], allocated)
			}
		}
	}

	return out
}

// setBillingRates derives utilization_rate and zoho_utilization_rate.
// Without an allocated total no overall rate exists; a Zoho total without
// a usable denominator yields an explicit null Zoho rate.
func setBillingRates(out *domain.MetricsModel) {
	allocated, hasAlloc := out.TotalAllocated.Get()
	zoho, hasZoho := out.TotalZohoUtilized.Get()

	switch {
	case hasAlloc && allocated > 0:
		out.UtilizationRate = domain.Some(rate(out.TotalUtilized.Or(0), allocated))
		if hasZoho {
			out.ZohoUtilizationRate = domain.Some(rate(zoho, allocated))
		}
	case hasAlloc:
		out.UtilizationRate = domain.Some(0.0)
		if hasZoho {
			out.ZohoUtilizationRate = domain.Some(0.0)
		} else {
			out.ZohoUtilizationRate = domain.Null[float64]()
		}
	case hasZoho:
		out.ZohoUtilizationRate = domain.Null[float64]()
	}
}

package domain

import (
	"encoding/json"
)

// MetricsModel is the aggregate view of one uploaded workbook.
// Every field is optional; absent fields are omitted from JSON. When Error is
// set the model carries nothing else and serialises to {"error": "..."}.
type MetricsModel struct {
	TotalAllocated      Opt[float64] `json:"total_allocated,omitzero"`
	TotalUtilized       Opt[float64] `json:"total_utilized,omitzero"`
	TotalRemaining      Opt[float64] `json:"total_remaining,omitzero"`
	TotalZohoUtilized   Opt[float64] `json:"total_zoho_utilized,omitzero"`
	TotalZohoRemaining  Opt[float64] `json:"total_zoho_remaining,omitzero"`
	UtilizationRate     Opt[float64] `json:"utilization_rate,omitzero"`
	ZohoUtilizationRate Opt[float64] `json:"zoho_utilization_rate,omitzero"`

	StatusCounts    map[string]int     `json:"status_counts,omitzero"`
	BillingByStatus map[string]float64 `json:"billing_by_status,omitzero"`
	DeptBilling     map[string]float64 `json:"dept_billing,omitzero"`
	DeptUtilRate    map[string]float64 `json:"dept_util_rate,omitzero"`

	MilestoneCounts         map[string]int     `json:"milestone_counts,omitzero"`
	MilestoneCompletionRate Opt[float64]       `json:"milestone_completion_rate,omitzero"`
	MilestoneByType         *MilestoneCrossTab `json:"milestone_by_type,omitzero"`
	HasLinkedData           Opt[bool]          `json:"has_linked_data,omitzero"`

	Resources             []ResourceRecord    `json:"resources,omitzero"`
	TotalResources        Opt[int]            `json:"total_resources,omitzero"`
	ResourcesByDepartment map[string][]string `json:"resources_by_department,omitzero"`

	DeptComparison  []DeptComparison `json:"dept_comparison,omitzero"`
	TotalPPUtilized Opt[float64]     `json:"total_pp_utilized,omitzero"`

	Error string `json:"error,omitzero"`
}

// MilestoneCrossTab is a dense project type × status count table.
type MilestoneCrossTab struct {
	ProjectTypes []string                  `json:"project_types"`
	StatusTypes  []string                  `json:"status_types"`
	Data         map[string]map[string]int `json:"data"`
}

// DeptComparison compares project-plan and time-tracking utilised days for one department.
type DeptComparison struct {
	Department     string  `json:"department"`
	PrimaryTotal   float64 `json:"primary_total"`
	SecondaryTotal float64 `json:"secondary_total"`
}

// ResourceRecord is one person and their project assignments.
type ResourceRecord struct {
	Name                string              `json:"name"`
	Department          Opt[string]         `json:"department,omitzero"`
	Role                Opt[string]         `json:"role,omitzero"`
	TotalAllocated      Opt[float64]        `json:"total_allocated,omitzero"`
	TotalUtilized       Opt[float64]        `json:"total_utilized,omitzero"`
	UtilizationRate     Opt[float64]        `json:"utilization_rate,omitzero"`
	TotalZohoUtilized   Opt[float64]        `json:"total_zoho_utilized,omitzero"`
	ZohoUtilizationRate Opt[float64]        `json:"zoho_utilization_rate,omitzero"`
	Projects            []ProjectAssignment `json:"projects"`
}

// ProjectAssignment is one source row of a resource.
type ProjectAssignment struct {
	Name               string       `json:"name"`
	EngagementType     Opt[string]  `json:"engagement_type,omitzero"`
	Allocated          Opt[float64] `json:"allocated,omitzero"`
	Utilized           Opt[float64] `json:"utilized,omitzero"`
	ProjectUtilization Opt[float64] `json:"project_utilization,omitzero"`
	ZohoUtilized       Opt[float64] `json:"zoho_utilized,omitzero"`
	ZohoUtilization    Opt[float64] `json:"zoho_utilization,omitzero"`
}

// NewErrorModel returns a model that only carries a failure message.
func NewErrorModel(message string) *MetricsModel {
	return &MetricsModel{Error: message}
}

// Failed reports whether the model represents a structural failure.
func (m *MetricsModel) Failed() bool {
	return m.Error != ""
}

// FindResource returns the resource with the given name.
func (m *MetricsModel) FindResource(name string) (*ResourceRecord, bool) {
	for i := range m.Resources {
		if m.Resources[i].Name == name {
			return &m.Resources[i], true
		}
	}
	return nil, false
}

// Merge copies every field of other that m does not already hold.
// Keys already present in m are never overwritten.
func (m *MetricsModel) Merge(other *MetricsModel) {
	if other == nil {
		return
	}
	mergeOpt(&m.TotalAllocated, other.TotalAllocated)
	mergeOpt(&m.TotalUtilized, other.TotalUtilized)
	mergeOpt(&m.TotalRemaining, other.TotalRemaining)
	mergeOpt(&m.TotalZohoUtilized, other.TotalZohoUtilized)
	mergeOpt(&m.TotalZohoRemaining, other.TotalZohoRemaining)
	mergeOpt(&m.UtilizationRate, other.UtilizationRate)
	mergeOpt(&m.ZohoUtilizationRate, other.ZohoUtilizationRate)
	mergeOpt(&m.MilestoneCompletionRate, other.MilestoneCompletionRate)
	mergeOpt(&m.HasLinkedData, other.HasLinkedData)
	mergeOpt(&m.TotalResources, other.TotalResources)
	mergeOpt(&m.TotalPPUtilized, other.TotalPPUtilized)

	if m.StatusCounts == nil {
		m.StatusCounts = other.StatusCounts
	}
	if m.BillingByStatus == nil {
		m.BillingByStatus = other.BillingByStatus
	}
	if m.DeptBilling == nil {
		m.DeptBilling = other.DeptBilling
	}
	if m.DeptUtilRate == nil {
		m.DeptUtilRate = other.DeptUtilRate
	}
	if m.MilestoneCounts == nil {
		m.MilestoneCounts = other.MilestoneCounts
	}
	if m.MilestoneByType == nil {
		m.MilestoneByType = other.MilestoneByType
	}
	if m.Resources == nil {
		m.Resources = other.Resources
	}
	if m.ResourcesByDepartment == nil {
		m.ResourcesByDepartment = other.ResourcesByDepartment
	}
	if m.DeptComparison == nil {
		m.DeptComparison = other.DeptComparison
	}
	if m.Error == "" {
		m.Error = other.Error
	}
}

func mergeOpt[T any](dst *Opt[T], src Opt[T]) {
	if !dst.Present() {
		*dst = src
	}
}

// MarshalJSON writes only the error key for failed models.
func (m MetricsModel) MarshalJSON() ([]byte, error) {
	if m.Error != "" {
		return json.Marshal(map[string]string{"error": m.Error})
	}
	type alias MetricsModel
	return json.Marshal(alias(m))
}

package exporter

import (
	"errors"
	"fmt"
	"sort"

	"billingdash/pkg/contracts/domain"
)

// Report names a CSV view of a metrics model
type Report string

const (
	ReportResources   Report = "resources"
	ReportDepartments Report = "departments"
)

var (
	// ErrUnknownReport is returned for report names Build does not know
	ErrUnknownReport = errors.New("unknown report")
	// ErrFailedModel is returned when the model only carries an error
	ErrFailedModel = errors.New("metrics model has no data")
)

// Reports lists every report Build accepts
func Reports() []Report {
	return []Report{ReportResources, ReportDepartments}
}

// ParseReport validates a report name
func ParseReport(name string) (Report, error) {
	for _, r := range Reports() {
		if string(r) == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, name)
}

// Build renders one report of model
func Build(report Report, model *domain.MetricsModel) (Table, error) {
	if model == nil || model.Failed() {
		return Table{}, ErrFailedModel
	}
	switch report {
	case ReportResources:
		return resourcesTable(model), nil
	case ReportDepartments:
		return departmentsTable(model), nil
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownReport, report)
	}
}

func resourcesTable(model *domain.MetricsModel) Table {
	t := Table{Headers: []string{
		"Resource", "Department", "Role", "Project", "Engagement Type",
		"Allocated", "Utilized", "Project Utilization",
		"Zoho Utilized", "Zoho Utilization",
	}}

	for _, r := range model.Resources {
		dept := formatOptString(r.Department)
		role := formatOptString(r.Role)
		for _, p := range r.Projects {
			t.Records = append(t.Records, []string{
				r.Name, dept, role, p.Name, formatOptString(p.EngagementType),
				formatOptFloat(p.Allocated), formatOptFloat(p.Utilized), formatOptFloat(p.ProjectUtilization),
				formatOptFloat(p.ZohoUtilized), formatOptFloat(p.ZohoUtilization),
			})
		}
	}
	return t
}

func departmentsTable(model *domain.MetricsModel) Table {
	t := Table{Headers: []string{
		"Department", "Allocated", "Utilization Rate",
		"Project Plan Utilized", "Zoho Utilized", "Resources",
	}}

	comparison := make(map[string]domain.DeptComparison, len(model.DeptComparison))
	depts := make(map[string]struct{})
	for _, c := range model.DeptComparison {
		comparison[c.Department] = c
		depts[c.Department] = struct{}{}
	}
	for d := range model.DeptBilling {
		depts[d] = struct{}{}
	}
	for d := range model.ResourcesByDepartment {
		depts[d] = struct{}{}
	}

	names := make([]string, 0, len(depts))
	for d := range depts {
		names = append(names, d)
	}
	sort.Strings(names)

	for _, d := range names {
		record := []string{d, "", "", "", "", fmt.Sprint(len(model.ResourcesByDepartment[d]))}
		if v, ok := model.DeptBilling[d]; ok {
			record[1] = formatFloat(v)
		}
		if v, ok := model.DeptUtilRate[d]; ok {
			record[2] = formatFloat(v)
		}
		if c, ok := comparison[d]; ok {
			record[3] = formatFloat(c.PrimaryTotal)
			record[4] = formatFloat(c.SecondaryTotal)
		}
		t.Records = append(t.Records, record)
	}
	return t
}

package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billingdash/pkg/contracts/domain"
)

func sampleModel() *domain.MetricsModel {
	return &domain.MetricsModel{
		DeptBilling:  map[string]float64{"Eng": 20, "Ops": 10},
		DeptUtilRate: map[string]float64{"Eng": 50, "Ops": 0},
		DeptComparison: []domain.DeptComparison{
			{Department: "Eng", PrimaryTotal: 10, SecondaryTotal: 8.5},
		},
		ResourcesByDepartment: map[string][]string{
			"Eng":     {"Ana"},
			"Unknown": {"Ben"},
		},
		Resources: []domain.ResourceRecord{
			{
				Name:       "Ana",
				Department: domain.Some("Eng"),
				Role:       domain.Some("Lead"),
				Projects: []domain.ProjectAssignment{
					{Name: "Apollo", EngagementType: domain.Some("Fixed"), Allocated: domain.Some(10.0), Utilized: domain.Some(5.0), ProjectUtilization: domain.Some(50.0)},
					{Name: "Hermes", Allocated: domain.Some(10.0), Utilized: domain.Some(5.0), ProjectUtilization: domain.Some(50.0), ZohoUtilization: domain.Null[float64]()},
				},
			},
			{Name: "Ben", Projects: []domain.ProjectAssignment{}},
		},
	}
}

func TestBuild_Resources(t *testing.T) {
	table, err := Build(ReportResources, sampleModel())
	require.NoError(t, err)

	assert.Equal(t, "Resource", table.Headers[0])
	require.Len(t, table.Records, 2)
	assert.Equal(t,
		[]string{"Ana", "Eng", "Lead", "Apollo", "Fixed", "10.00", "5.00", "50.00", "", ""},
		table.Records[0])
	assert.Equal(t, "", table.Records[1][4])
	assert.Equal(t, "", table.Records[1][9])
}

func TestBuild_Departments(t *testing.T) {
	table, err := Build(ReportDepartments, sampleModel())
	require.NoError(t, err)

	require.Len(t, table.Records, 3)
	assert.Equal(t, []string{"Eng", "20.00", "50.00", "10.00", "8.50", "1"}, table.Records[0])
	assert.Equal(t, []string{"Ops", "10.00", "0.00", "", "", "0"}, table.Records[1])
	assert.Equal(t, []string{"Unknown", "", "", "", "", "1"}, table.Records[2])
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		report  Report
		model   *domain.MetricsModel
		wantErr error
	}{
		{name: "nil model", report: ReportResources, model: nil, wantErr: ErrFailedModel},
		{name: "failed model", report: ReportResources, model: domain.NewErrorModel("boom"), wantErr: ErrFailedModel},
		{name: "unknown report", report: "charts", model: sampleModel(), wantErr: ErrUnknownReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.report, tt.model)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuild_EmptyModel(t *testing.T) {
	table, err := Build(ReportResources, &domain.MetricsModel{})
	require.NoError(t, err)
	assert.NotEmpty(t, table.Headers)
	assert.Empty(t, table.Records)
}

func TestParseReport(t *testing.T) {
	r, err := ParseReport("departments")
	require.NoError(t, err)
	assert.Equal(t, ReportDepartments, r)

	_, err = ParseReport("Departments")
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestCSVWriter_Write(t *testing.T) {
	table := Table{
		Headers: []string{"Name", "Note"},
		Records: [][]string{{"Ana", "says \"hi\", twice"}},
	}

	tests := []struct {
		name    string
		bom     bool
		wantBOM bool
	}{
		{name: "plain", bom: false, wantBOM: false},
		{name: "with BOM", bom: true, wantBOM: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(tt.bom).Write(&buf, table))

			data := buf.Bytes()
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(data, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, [][]string{{"Name", "Note"}, {"Ana", "says \"hi\", twice"}}, records)
		})
	}
}

func TestCSVWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	table := Table{Headers: []string{"A"}, Records: [][]string{{"1"}}}

	require.NoError(t, NewCSVWriter(false).WriteFile(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n", string(data))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "13.40", formatFloat(13.4))
	assert.Equal(t, "0.00", formatFloat(0))
	assert.Equal(t, "", formatOptFloat(domain.Null[float64]()))
	assert.Equal(t, "", formatOptFloat(domain.Opt[float64]{}))
	assert.Equal(t, "1.50", formatOptFloat(domain.Some(1.5)))
}

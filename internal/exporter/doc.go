// Package exporter renders a metrics model as flat CSV reports.
//
// Two reports are available:
//
// ReportResources: one row per project assignment with the owning resource's
// department and role repeated on every row.
//
// ReportDepartments: one row per department combining allocated days,
// utilisation rate and the project-plan versus Zoho comparison.
//
// CSVWriter writes a Table to any io.Writer or to a file, optionally prefixed
// with a UTF-8 BOM so Excel detects the encoding.
//
// Example usage:
//
//	table, err := exporter.Build(exporter.ReportResources, model)
//	if err != nil {
//	    return err
//	}
//	err = exporter.NewCSVWriter(true).WriteFile("out/resources.csv", table)
package exporter

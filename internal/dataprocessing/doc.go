// Package dataprocessing turns a resource billing workbook into the metrics model
// consumed by the dashboard.
//
// # Architecture
//
// The package is organized as a single synchronous pipeline:
//
//  1. Table: loads one worksheet into typed cells (row 1 is the header)
//  2. Column resolver: maps semantic roles onto the header row of each table
//  3. Aggregators: billing, milestone, resource and comparison metrics
//  4. Processor: loads both sheets, runs the aggregators and merges their output
//
// # Usage
//
//	p := dataprocessing.NewProcessor(dataprocessing.DefaultOptions(), logger)
//	model := p.Process(ctx, "uploads/billing.xlsx")
//	if model.Failed() {
//	    return errors.New(model.Error)
//	}
//
// # Column Resolution
//
// Header strings vary between workbooks, so columns are never looked up by
// literal name. Each Role has a rule made of case-insensitive substring and
// exact-match clauses; the leftmost header that satisfies the rule wins.
// A role without a matching header is unresolved and only disables the
// metrics that depend on it.
//
// # Data Flow
//
//	Workbook → Tables → ColumnMap → partial MetricsModels → merged MetricsModel
//
// # Error Handling
//
// Only workbook and sheet loading can fail. Such failures collapse into a model
// whose Error field holds a readable message. Non-numeric values in a numeric
// column contribute 0 instead of failing the request.
package dataprocessing

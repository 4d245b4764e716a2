// Package shared holds code used by more than one package that belongs to no
// single layer.
//
// The testutil subpackage provides test helpers:
//
//   - LogCapture, an slog.Handler that records every log record
//   - Sheet and WriteWorkbook / WorkbookBytes, excelize fixtures for billing
//     and milestone workbooks
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewCaptureLogger(t)
//	    path := testutil.WriteWorkbook(t, "billing.xlsx",
//	        testutil.Sheet{Name: "Billed_2025", Rows: rows})
//	    ...
//	    testutil.AssertLogged(t, logs, slog.LevelInfo, "workbook loaded")
//	}
package shared

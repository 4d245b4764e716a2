// Package services implements the business logic layer of the billing
// dashboard. It sits between the HTTP handlers and the upload store plus
// the metrics pipeline.
//
// # Service Layer Responsibilities
//
//   - Mapping storage and pipeline outcomes to service errors
//   - Tracing and metrics around each pipeline run
//   - Bounding pipeline runs with a timeout
//
// # Available Services
//
//   - DashboardService: uploads, metrics, resources and deletion
//   - HealthService: health, liveness and version reporting
//
// # Error Handling
//
// Services return sentinel errors (ErrUploadNotFound, ErrNoResourceData, ...)
// and *WorkbookError for workbooks the pipeline rejected. Storage failures
// keep the *apierrors.AppError raised by the files package in their chain.
// Handlers translate both to RFC 7807 problems.
//
// Every metrics request recomputes the model from the stored workbook. Nothing
// derived from a workbook outlives the request.
package services

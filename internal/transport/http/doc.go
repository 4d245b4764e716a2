// Package http implements the HTTP handlers of the billing dashboard. Handlers
// stay thin: they parse the request, call a service and translate the result.
//
// # Routes
//
//	POST   /api/uploads                                 store a workbook (multipart field "file")
//	GET    /api/uploads                                 list stored workbooks
//	GET    /api/uploads/{filename}/metrics              full metrics model
//	GET    /api/uploads/{filename}/resources            resource list
//	GET    /api/uploads/{filename}/resources/{name}     one resource
//	GET    /api/uploads/{filename}/export/{report}      CSV report (resources, departments)
//	DELETE /api/uploads/{filename}                      remove a workbook
//	GET    /api/health, /api/health/live, /api/version
//	GET    /metrics                                     Prometheus exposition
//
// # Error Handling
//
// Every failure is written as RFC 7807 problem details through
// errors.ErrorHandler. A workbook the pipeline rejects becomes a 422 whose
// detail is the pipeline's own message.
package http

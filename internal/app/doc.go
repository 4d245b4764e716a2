// Package app wires the billing dashboard together and manages its lifecycle.
//
// New builds every component from a loaded configuration in dependency
// order:
//
//  1. OpenTelemetry providers and pipeline metrics
//  2. The upload store and the workbook processor
//  3. Dashboard and health services
//  4. The chi router with middleware and API routes
//  5. The http.Server
//
// Run listens on the configured port and shuts down gracefully on SIGINT or
// SIGTERM. Serve does the same for a caller-provided listener, which is how
// the tests drive it.
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app

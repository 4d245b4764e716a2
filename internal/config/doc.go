// Package config provides configuration management for the billing dashboard.
// It loads configuration from multiple sources, validates it and exposes a
// typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// The YAML file is taken from BILLING_CONFIG_FILE, or config.yaml /
// configs/config.yaml when present.
//
// # Environment Variables
//
// All environment variables follow the pattern BILLING_<SECTION>_<FIELD>:
//
//	BILLING_SERVER_PORT=8080
//	BILLING_LOGGING_LEVEL=debug
//	BILLING_STORAGE_UPLOAD_DIR=/var/lib/billing/uploads
//	BILLING_WORKBOOK_PRIMARY_SHEET=Billed_2025
//	BILLING_TELEMETRY_TRACING_EXPORTER=stdout
//
// # Validation
//
// Every section carries validator struct tags that are checked at load time.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For tests, Default returns a complete configuration that needs no
// environment.
package config

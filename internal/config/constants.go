package config

import (
	"time"

	"billingdash/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "billing-dashboard"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. BILLING_SERVER_PORT.
	EnvPrefix = "BILLING"

	// Server
	DefaultPort           = 8080
	DefaultMaxUploadBytes = 16 << 20 // 16 MiB
	DefaultProcessTimeout = 60 * time.Second

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Storage
	DefaultUploadDir = "uploads"

	// Workbook sheets
	DefaultPrimarySheet   = "Billed_2025"
	DefaultMilestoneSheet = "Milestone Status"
)

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "billingdash/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadFrom tests the precedence of defaults, file and environment
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, int64(16<<20), cfg.Server.MaxUploadBytes)
				assert.Equal(t, DefaultProcessTimeout, cfg.Server.ProcessTimeout)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "stdout", cfg.Logging.Output)
				assert.Equal(t, "uploads", cfg.Storage.UploadDir)
				assert.Equal(t, []string{"xlsx"}, cfg.Storage.AllowedExtensions)
				assert.Equal(t, "Billed_2025", cfg.Workbook.PrimarySheet)
				assert.Equal(t, "Milestone Status", cfg.Workbook.MilestoneSheet)
				assert.Equal(t, "none", cfg.Telemetry.TracingExporter)
				assert.True(t, cfg.Telemetry.MetricsEnabled)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
logging:
  level: DEBUG
storage:
  upload_dir: /tmp/billing
  allowed_extensions: [".XLSX"]
workbook:
  primary_sheet: Billing
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "keys missing from file keep defaults")
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/tmp/billing", cfg.Storage.UploadDir)
				assert.Equal(t, []string{"xlsx"}, cfg.Storage.AllowedExtensions)
				assert.Equal(t, "Billing", cfg.Workbook.PrimarySheet)
				assert.Equal(t, "Milestone Status", cfg.Workbook.MilestoneSheet)
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"BILLING_SERVER_PORT":                "7070",
				"BILLING_SERVER_PROCESS_TIMEOUT":     "5s",
				"BILLING_SECURITY_ALLOWED_ORIGINS":   "http://a.example,http://b.example",
				"BILLING_SECURITY_RATE_LIMIT_RPS":    "2.5",
				"BILLING_WORKBOOK_MILESTONE_SHEET":   "Milestones",
				"BILLING_TELEMETRY_TRACING_EXPORTER": "stdout",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ProcessTimeout)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 2.5, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "Milestones", cfg.Workbook.MilestoneSheet)
				assert.Equal(t, "stdout", cfg.Telemetry.TracingExporter)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"BILLING_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unparsable env value",
			env:     map[string]string{"BILLING_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: verbose\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			file:    "server: [",
			wantErr: true,
		},
		{
			name:    "unknown tracing exporter",
			env:     map[string]string{"BILLING_TELEMETRY_TRACING_EXPORTER": "jaeger"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
	assert.Equal(t, path, appErr.Context["file"])
}

func TestLoadFromInvalidValue(t *testing.T) {
	t.Setenv("BILLING_LOGGING_LEVEL", "verbose")

	_, err := LoadFrom("")
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadUsesConfigFileEnv(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8181\n")
	t.Setenv("BILLING_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(*Config) {}, ""},
		{"no origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "AllowedOrigins"},
		{"no upload dir", func(c *Config) { c.Storage.UploadDir = "" }, "UploadDir"},
		{"empty extension", func(c *Config) { c.Storage.AllowedExtensions = []string{""} }, "AllowedExtensions"},
		{"file output needs path", func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, "FilePath"},
		{"stdout output needs no path", func(c *Config) { c.Logging.FilePath = "" }, ""},
		{"zero process timeout", func(c *Config) { c.Server.ProcessTimeout = 0 }, "ProcessTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

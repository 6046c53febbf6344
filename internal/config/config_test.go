package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "docker", cfg.Source.Kind)
	assert.Equal(t, DefaultContainer, cfg.Source.Container)
	assert.Equal(t, DefaultTailLines, cfg.Source.TailLines)
	assert.Equal(t, 3, cfg.Source.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Source.Retry.InitialInterval)
	assert.Equal(t, "smtp.sendgrid.net", cfg.Rules.AlternateRelay)
	assert.Equal(t, "table", cfg.Report.Format)
	assert.False(t, cfg.Report.NoColor)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	content := `
source:
  kind: file
  file: /var/log/mail.log
  tail_lines: 200
rules:
  alternate_relay: relay.example.org
report:
  format: json
  no_color: true
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Source.Kind)
	assert.Equal(t, "/var/log/mail.log", cfg.Source.File)
	assert.Equal(t, 200, cfg.Source.TailLines)
	assert.Equal(t, "relay.example.org", cfg.Rules.AlternateRelay)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.True(t, cfg.Report.NoColor)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, 3, cfg.Source.Retry.MaxAttempts)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MAILTRACE_SOURCE_KIND", "stdin")
	t.Setenv("MAILTRACE_REPORT_FORMAT", "csv")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "stdin", cfg.Source.Kind)
	assert.Equal(t, "csv", cfg.Report.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidateStatic(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Source: SourceConfig{
				Kind:      "docker",
				Container: "postfix",
				TailLines: 100,
				Retry: RetryConfig{
					MaxAttempts:     3,
					InitialInterval: time.Second,
					MaxInterval:     10 * time.Second,
					Multiplier:      2,
				},
			},
			Report:  ReportConfig{Format: "table"},
			Logging: LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown source kind", func(c *Config) { c.Source.Kind = "carrier-pigeon" }, "source.kind"},
		{"docker without container", func(c *Config) { c.Source.Container = "" }, "source.container"},
		{"file without path", func(c *Config) { c.Source.Kind = "file"; c.Source.File = "" }, "source.file"},
		{"stdin needs nothing", func(c *Config) { c.Source.Kind = "stdin"; c.Source.Container = "" }, ""},
		{"zero tail", func(c *Config) { c.Source.TailLines = 0 }, "tail_lines"},
		{"zero retry attempts", func(c *Config) { c.Source.Retry.MaxAttempts = 0 }, "max_attempts"},
		{"inverted intervals", func(c *Config) { c.Source.Retry.InitialInterval = time.Minute }, "max_interval"},
		{"bad report format", func(c *Config) { c.Report.Format = "xml" }, "report.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

package config

import (
	"fmt"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	var errors []error

	if err := validateSource(cfg.Source); err != nil {
		errors = append(errors, err)
	}

	if err := validateReport(cfg.Report); err != nil {
		errors = append(errors, err)
	}

	if err := validateLogging(cfg.Logging); err != nil {
		errors = append(errors, err)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

func validateSource(cfg SourceConfig) error {
	switch cfg.Kind {
	case "docker":
		if cfg.Container == "" {
			return &ValidationError{
				Field:   "source.container",
				Message: "container name is required for the docker source",
			}
		}
	case "file":
		if cfg.File == "" {
			return &ValidationError{
				Field:   "source.file",
				Message: "file path is required for the file source",
			}
		}
	case "stdin":
	default:
		return &ValidationError{
			Field:   "source.kind",
			Message: fmt.Sprintf("unknown source kind: %s (supported: docker, file, stdin)", cfg.Kind),
		}
	}

	if cfg.TailLines <= 0 {
		return &ValidationError{
			Field:   "source.tail_lines",
			Message: fmt.Sprintf("tail_lines must be positive, got %d", cfg.TailLines),
		}
	}

	if cfg.Retry.MaxAttempts < 1 {
		return &ValidationError{
			Field:   "source.retry.max_attempts",
			Message: "max_attempts must be at least 1",
		}
	}

	if cfg.Retry.InitialInterval < 0 || cfg.Retry.MaxInterval < 0 {
		return &ValidationError{
			Field:   "source.retry",
			Message: "retry intervals must be non-negative",
		}
	}

	if cfg.Retry.MaxInterval > 0 && cfg.Retry.InitialInterval > cfg.Retry.MaxInterval {
		return &ValidationError{
			Field:   "source.retry.max_interval",
			Message: "max_interval must be greater than or equal to initial_interval",
		}
	}

	if cfg.Retry.Multiplier <= 0 {
		return &ValidationError{
			Field:   "source.retry.multiplier",
			Message: "multiplier must be positive",
		}
	}

	return nil
}

func validateReport(cfg ReportConfig) error {
	switch cfg.Format {
	case "table", "json", "csv":
		return nil
	default:
		return &ValidationError{
			Field:   "report.format",
			Message: fmt.Sprintf("unknown report format: %s (supported: table, json, csv)", cfg.Format),
		}
	}
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown log level: %s (supported: debug, info, warn, error)", cfg.Level),
		}
	}

	switch cfg.Format {
	case "console", "json":
		return nil
	default:
		return &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown log format: %s (supported: console, json)", cfg.Format),
		}
	}
}

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads the yaml config at configFile, or just defaults and environment
// overrides when no file is given. The tool must work with zero config.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnvVariables(v)

	if configFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", "docker")
	v.SetDefault("source.container", DefaultContainer)
	v.SetDefault("source.tail_lines", DefaultTailLines)
	v.SetDefault("source.retry.max_attempts", 3)
	v.SetDefault("source.retry.initial_interval", "500ms")
	v.SetDefault("source.retry.max_interval", "10s")
	v.SetDefault("source.retry.multiplier", 2.0)
	v.SetDefault("rules.alternate_relay", "smtp.sendgrid.net")
	v.SetDefault("report.format", "table")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("source.kind", "MAILTRACE_SOURCE_KIND")
	v.BindEnv("source.container", "MAILTRACE_SOURCE_CONTAINER")
	v.BindEnv("source.tail_lines", "MAILTRACE_SOURCE_TAIL_LINES")
	v.BindEnv("source.file", "MAILTRACE_SOURCE_FILE")
	v.BindEnv("rules.alternate_relay", "MAILTRACE_RULES_ALTERNATE_RELAY")
	v.BindEnv("report.format", "MAILTRACE_REPORT_FORMAT")
	v.BindEnv("report.no_color", "MAILTRACE_REPORT_NO_COLOR")
	v.BindEnv("logging.level", "MAILTRACE_LOGGING_LEVEL")
	v.BindEnv("logging.format", "MAILTRACE_LOGGING_FORMAT")
}

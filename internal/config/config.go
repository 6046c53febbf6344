package config

import (
	"time"
)

type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Report  ReportConfig  `mapstructure:"report"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig selects and parameterizes the log source collaborator.
type SourceConfig struct {
	Kind      string      `mapstructure:"kind"` // docker, file or stdin
	Container string      `mapstructure:"container"`
	TailLines int         `mapstructure:"tail_lines"`
	File      string      `mapstructure:"file"`
	Retry     RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	Multiplier      float64       `mapstructure:"multiplier"`
}

// RulesConfig tunes line classification.
type RulesConfig struct {
	// AlternateRelay is the transport-map target whose presence marks a
	// record as routed via the alternate outbound relay.
	AlternateRelay string `mapstructure:"alternate_relay"`
}

type ReportConfig struct {
	Format  string `mapstructure:"format"` // table, json or csv
	NoColor bool   `mapstructure:"no_color"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DefaultContainer = "mailcowdockerized-postfix-mailcow-1"
	DefaultTailLines = 5000
)

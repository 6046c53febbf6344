package source

import (
	"context"

	"mailtrace/internal/config"
	"mailtrace/internal/logger"
	"mailtrace/pkg/errors"
)

// Source retrieves one bounded batch of raw log lines. Retrieval is the only
// operation in the tool that can block or fail; everything downstream is a
// pure transformation.
type Source interface {
	Lines(ctx context.Context) ([]string, error)
}

// Constructor builds a Source from config.
type Constructor func(cfg config.SourceConfig, log logger.Logger) (Source, error)

var registry = map[string]Constructor{}

func register(kind string, ctor Constructor) {
	registry[kind] = ctor
}

// New returns the source for the configured kind.
func New(cfg config.SourceConfig, log logger.Logger) (Source, error) {
	ctor, ok := registry[cfg.Kind]
	if !ok {
		return nil, errors.ErrConfig.WithMessage("unknown source kind %q", cfg.Kind)
	}
	return ctor(cfg, log)
}

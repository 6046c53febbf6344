package main

import (
	"context"
	"io"
	"os"
	"time"

	"mailtrace/internal/aggregation"
	"mailtrace/internal/config"
	"mailtrace/internal/filtering"
	"mailtrace/internal/logger"
	"mailtrace/internal/reporting"
	"mailtrace/internal/source"
)

// App wires the log source, the aggregation pipeline and the renderer for
// one invocation. The report goes to out (stdout); logs go to stderr.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	out    io.Writer
	now    func() time.Time
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: log,
		out:    os.Stdout,
		now:    time.Now,
	}
}

func (a *App) Run(ctx context.Context, crit filtering.Criteria) error {
	src, err := source.New(a.cfg.Source, a.logger)
	if err != nil {
		return err
	}

	a.logger.Infow("Retrieving logs", "source", a.cfg.Source.Kind)
	lines, err := src.Lines(ctx)
	if err != nil {
		return err
	}

	svc := reporting.NewService(aggregation.NewClassifier(a.cfg.Rules.AlternateRelay), a.logger)
	sum, rows, err := svc.Report(lines, crit, a.now())
	if err != nil {
		return err
	}
	a.logger.Infow("Report generated", "lines", len(lines), "records", sum.Total)

	renderer := reporting.NewRenderer(a.cfg.Report.Format, !a.cfg.Report.NoColor)
	return renderer.Render(a.out, sum, rows)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mailtrace/internal/config"
	"mailtrace/internal/filtering"
	"mailtrace/internal/logger"
	apperrors "mailtrace/pkg/errors"
	"mailtrace/pkg/logging"
)

var (
	configFile string
	logLevel   string

	flagSearch  string
	flagType    string
	flagStatus  string
	flagDays    string
	flagDate    string
	flagTime    string
	flagExpr    string
	flagFormat  string
	flagSource  string
	flagFile    string
	flagTail    int
	flagNoColor bool
	flagNoInput bool

	flagContainer string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mailtrace",
		Short:         "Searchable email delivery reports from postfix logs",
		Long:          "mailtrace reconstructs per-message delivery transactions from a mailcow postfix log and renders a filtered report.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReport,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a delivery report",
		RunE:  runReport,
	}
	addReportFlags(rootCmd)
	addReportFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(apperrors.ToExitCode(err))
	}
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagSearch, "search", "s", "", "Search term (email, domain, or partial). Leave blank for all emails")
	cmd.Flags().StringVarP(&flagType, "type", "t", "both", "Search type: sender, recipient, or both")
	cmd.Flags().StringVar(&flagStatus, "status", "", "Filter by status: sent, deferred, bounced, blocked, pending")
	cmd.Flags().StringVarP(&flagDays, "days", "d", "", "Number of days to look back, or \"all\" for no date filter")
	cmd.Flags().StringVar(&flagDate, "date", "", "Specific date filter (e.g. \"8 Dec\" or \"Dec 8\")")
	cmd.Flags().StringVar(&flagTime, "time", "", "Time-of-day floor combined with --date (e.g. \"23:46:06\")")
	cmd.Flags().StringVar(&flagExpr, "expr", "", "CEL filter over records (e.g. 'status == \"sent\" && size > 1024')")
	cmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Output format: table, json, csv")
	cmd.Flags().StringVar(&flagSource, "source", "", "Log source: docker, file, stdin")
	cmd.Flags().StringVar(&flagFile, "file", "", "Log file path (implies --source file)")
	cmd.Flags().StringVarP(&flagContainer, "container", "c", "", "Postfix container name")
	cmd.Flags().IntVarP(&flagTail, "lines", "n", 0, "Number of log lines to analyze")
	cmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored table output")
	cmd.Flags().BoolVar(&flagNoInput, "no-input", false, "Never prompt interactively")
}

func runReport(cmd *cobra.Command, args []string) error {
	earlyLog := logging.NewEarlyLog()

	cfg, err := config.Load(configFile)
	if err != nil {
		earlyLog.Error("Failed to load config: %v", err)
		return apperrors.Wrap(err, apperrors.ErrConfig)
	}
	applyFlagOverrides(cfg)
	if err := config.ValidateStatic(cfg); err != nil {
		earlyLog.Error("%v", err)
		return apperrors.Wrap(err, apperrors.ErrConfig)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		earlyLog.Error("Failed to init logger: %v", err)
		return apperrors.Wrap(err, apperrors.ErrInternal)
	}
	defer log.Sync()
	log = log.With("run_id", uuid.NewString())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	in := filtering.Input{
		Search:     flagSearch,
		Type:       flagType,
		Status:     flagStatus,
		Days:       flagDays,
		Date:       flagDate,
		Time:       flagTime,
		Expression: flagExpr,
	}
	if interactive(in) {
		in = promptCriteria(os.Stdin, os.Stderr)
		in.Type = orDefault(in.Type, "both")
	}

	crit, err := filtering.ParseCriteria(in)
	if err != nil {
		earlyLog.Error("%v", err)
		return err
	}

	app := NewApp(cfg, log)
	if err := app.Run(ctx, crit); err != nil {
		log.Errorw("Report failed", "error", err)
		return err
	}
	return nil
}

// interactive reports whether the user gave no filtering input at all, which
// drops the tool into its prompt flow.
func interactive(in filtering.Input) bool {
	if flagNoInput {
		return false
	}
	return in.Search == "" && in.Status == "" && in.Days == "" && in.Date == "" && in.Expression == ""
}

func applyFlagOverrides(cfg *config.Config) {
	if flagSource != "" {
		cfg.Source.Kind = flagSource
	}
	if flagFile != "" {
		cfg.Source.File = flagFile
		if flagSource == "" {
			cfg.Source.Kind = "file"
		}
	}
	if flagContainer != "" {
		cfg.Source.Container = flagContainer
	}
	if flagTail > 0 {
		cfg.Source.TailLines = flagTail
	}
	if flagFormat != "" {
		cfg.Report.Format = flagFormat
	}
	if flagNoColor {
		cfg.Report.NoColor = true
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

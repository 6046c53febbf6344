package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalf(template string, args ...interface{})
	With(keysAndValues ...interface{}) Logger
	Sync() error
}

type SugaredLogger struct {
	*zap.SugaredLogger
}

// New builds the process logger. Output always goes to stderr: stdout is
// reserved for the rendered report.
func New(level, format string) (Logger, error) {
	cfg := zap.NewProductionConfig()

	cfg.Encoding = "console"
	if format == "json" {
		cfg.Encoding = "json"
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.DisableStacktrace = true

	switch level {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return &SugaredLogger{SugaredLogger: zapLogger.Sugar()}, nil
}

func (l *SugaredLogger) With(keysAndValues ...interface{}) Logger {
	return &SugaredLogger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

func NopLogger() Logger {
	return &SugaredLogger{SugaredLogger: zap.NewNop().Sugar()}
}

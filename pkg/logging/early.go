package logging

import (
	"fmt"
	"os"
)

// EarlyLog covers the window before the zap logger is configured: config
// loading and flag validation. Everything goes to stderr so report output on
// stdout stays clean.
type EarlyLog struct{}

func NewEarlyLog() *EarlyLog {
	return &EarlyLog{}
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+msg+"\n", args...)
}

func (l *EarlyLog) Warn(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "WARN: "+msg+"\n", args...)
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "INFO: "+msg+"\n", args...)
}

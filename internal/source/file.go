package source

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"mailtrace/internal/config"
	"mailtrace/internal/logger"
	apperrors "mailtrace/pkg/errors"
)

func init() {
	register("file", newFileSource)
	register("stdin", newStdinSource)
}

// FileSource reads a saved log. It accepts both plain syslog text and
// Docker's json-file format, where each line wraps the log text in a JSON
// object; the two are detected per line so mixed captures still work.
type FileSource struct {
	path   string
	logger logger.Logger
}

func newFileSource(cfg config.SourceConfig, log logger.Logger) (Source, error) {
	return &FileSource{path: cfg.File, logger: log}, nil
}

func (s *FileSource) Lines(ctx context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.
			WithMessage("cannot open log file %s", s.path).WithCause(err)
	}
	defer f.Close()

	lines, err := readLines(ctx, f)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.
			WithMessage("cannot read log file %s", s.path).WithCause(err)
	}
	s.logger.Debugw("read log file", "path", s.path, "lines", len(lines))
	return lines, nil
}

// StdinSource consumes a log piped into the process.
type StdinSource struct {
	reader io.Reader
	logger logger.Logger
}

func newStdinSource(_ config.SourceConfig, log logger.Logger) (Source, error) {
	return &StdinSource{reader: os.Stdin, logger: log}, nil
}

func (s *StdinSource) Lines(ctx context.Context) ([]string, error) {
	lines, err := readLines(ctx, s.reader)
	if err != nil {
		return nil, apperrors.ErrSourceUnavailable.WithMessage("cannot read stdin").WithCause(err)
	}
	s.logger.Debugw("read stdin", "lines", len(lines))
	return lines, nil
}

type dockerJSONLine struct {
	Log string `json:"log"`
}

func readLines(ctx context.Context, r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines = append(lines, unwrapDockerJSON(scanner.Text()))
	}
	return lines, scanner.Err()
}

func unwrapDockerJSON(line string) string {
	if !strings.HasPrefix(line, "{") {
		return line
	}
	var wrapped dockerJSONLine
	if err := json.Unmarshal([]byte(line), &wrapped); err != nil || wrapped.Log == "" {
		return line
	}
	return strings.TrimRight(wrapped.Log, "\n")
}

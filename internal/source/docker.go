package source

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"

	"golang.org/x/sync/errgroup"

	"mailtrace/internal/config"
	"mailtrace/internal/logger"
	apperrors "mailtrace/pkg/errors"
	"mailtrace/pkg/retry"
)

func init() {
	register("docker", newDockerSource)
}

// DockerSource shells out to `docker logs` for the postfix container.
// Postfix writes to both container streams, so both are captured; stdout
// lines come first, matching the order a combined `docker logs` pipe shows.
type DockerSource struct {
	container string
	tail      int
	policy    retry.Policy
	logger    logger.Logger
}

func newDockerSource(cfg config.SourceConfig, log logger.Logger) (Source, error) {
	return &DockerSource{
		container: cfg.Container,
		tail:      cfg.TailLines,
		policy: retry.Policy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			Multiplier:      cfg.Retry.Multiplier,
		},
		logger: log,
	}, nil
}

func (s *DockerSource) Lines(ctx context.Context) ([]string, error) {
	var lines []string
	err := retry.Retry(ctx, s.policy, func() error {
		batch, err := s.fetch(ctx)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				// No docker binary; retrying cannot help.
				return retry.Permanent(apperrors.ErrSourceUnavailable.
					WithMessage("docker command not found, is Docker installed?").WithCause(err))
			}
			s.logger.Warnw("docker log retrieval failed, retrying", "container", s.container, "error", err)
			return err
		}
		lines = batch
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.ErrSourceUnavailable.
			WithMessage("failed to retrieve logs from container %s", s.container).WithCause(err)
	}
	s.logger.Debugw("retrieved container logs", "container", s.container, "lines", len(lines))
	return lines, nil
}

func (s *DockerSource) fetch(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "docker", "logs", "--tail", strconv.Itoa(s.tail), s.container)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	// Both pipes must be drained concurrently or a full pipe buffer
	// deadlocks the child.
	var outLines, errLines []string
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outLines, err = scanLines(stdout)
		return err
	})
	g.Go(func() error {
		var err error
		errLines, err = scanLines(stderr)
		return err
	})

	scanErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}

	return append(outLines, errLines...), nil
}

func scanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

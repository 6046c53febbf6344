package source

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailtrace/internal/config"
	"mailtrace/internal/logger"
)

func TestNewDockerSource(t *testing.T) {
	src, err := New(config.SourceConfig{
		Kind:      "docker",
		Container: "postfix-mailcow",
		TailLines: 1000,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			Multiplier:      2,
		},
	}, logger.NopLogger())
	require.NoError(t, err)

	ds, ok := src.(*DockerSource)
	require.True(t, ok)
	assert.Equal(t, "postfix-mailcow", ds.container)
	assert.Equal(t, 1000, ds.tail)
	assert.Equal(t, 2, ds.policy.MaxAttempts)
}

func TestScanLines(t *testing.T) {
	lines, err := scanLines(strings.NewReader("a\nb\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)

	lines, err = scanLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

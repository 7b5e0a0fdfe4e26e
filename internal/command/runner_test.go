package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	runner := NewRunner()

	stdout, stderr, err := runner.Run(context.Background(), "echo hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", stdout)
	assert.Empty(t, stderr)
}

func TestRunner_RunInDir(t *testing.T) {
	dir := t.TempDir()
	runner := NewRunner()

	stdout, _, err := runner.RunInDir(context.Background(), dir, "pwd")

	require.NoError(t, err)
	assert.Contains(t, stdout, dir)
}

func TestRunner_Run_CommandFailure(t *testing.T) {
	runner := NewRunner()

	_, stderr, err := runner.Run(context.Background(), "echo oops >&2; exit 3")

	require.Error(t, err)
	assert.Equal(t, "oops", stderr)
}

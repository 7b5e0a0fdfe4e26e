// Package command abstracts shell command execution for run-action rules.
package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

//go:generate mockgen -source=runner.go -destination=runner_mock.go -package=command

// Runner abstracts command execution for testability
type Runner interface {
	// Run executes a shell command and returns stdout, stderr, and error
	Run(ctx context.Context, command string) (stdout string, stderr string, err error)
	// RunInDir executes a shell command in a specific directory
	RunInDir(ctx context.Context, dir string, command string) (stdout string, stderr string, err error)
}

// runner implements Runner interface
type runner struct{}

// NewRunner creates a new command runner
func NewRunner() Runner {
	return &runner{}
}

// Run executes a shell command and returns stdout, stderr, and error
func (r *runner) Run(ctx context.Context, command string) (string, string, error) {
	return r.RunInDir(ctx, "", command)
}

// RunInDir executes a shell command in a specific directory
func (r *runner) RunInDir(ctx context.Context, dir string, command string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

package kubernetes

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/illumination-k/kubectl-copylogs/pkg/log"
)

// CommandExecutor abstracts command execution for testing
type CommandExecutor interface {
	// Run executes a command and returns its standard output
	Run(ctx context.Context, name string, args ...string) (string, error)

	// Stream executes a command and copies its standard output into w
	// while the command is running. w may hold partial output when an
	// error is returned.
	Stream(ctx context.Context, w io.Writer, name string, args ...string) error
}

// ProcessExecutor implements CommandExecutor by spawning a child process
type ProcessExecutor struct{}

// NewProcessExecutor creates a new ProcessExecutor
func NewProcessExecutor() CommandExecutor {
	return &ProcessExecutor{}
}

// Run executes the command and captures stdout and stderr
func (p *ProcessExecutor) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout bytes.Buffer
	if err := p.run(ctx, &stdout, name, args); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

// Stream executes the command with its stdout connected to w
func (p *ProcessExecutor) Stream(ctx context.Context, w io.Writer, name string, args ...string) error {
	return p.run(ctx, w, name, args)
}

func (p *ProcessExecutor) run(ctx context.Context, stdout io.Writer, name string, args []string) error {
	logger := log.FromContext(ctx).With(
		slog.String("command", name+" "+strings.Join(args, " ")),
	)
	start := time.Now()

	//#nosec G204 -- the binary is the configured cluster CLI, args are built internally
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.DebugContext(ctx, "command failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return &CommandError{
			Args:   append([]string{name}, args...),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	logger.DebugContext(ctx, "command executed successfully",
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

package commands

import (
	"errors"

	"github.com/illumination-k/kubectl-copylogs/pkg/sources"
)

// Exit codes returned by the CLI
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError wraps invalid flags or arguments
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usageErr *UsageError
	if errors.Is(err, sources.ErrInvalidSelection) || errors.As(err, &usageErr) {
		return ExitUsage
	}

	return ExitFailure
}

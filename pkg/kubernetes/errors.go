package kubernetes

import (
	"errors"
	"strings"
)

// ErrCommandFailed matches every CommandError via errors.Is
var ErrCommandFailed = errors.New("command failed")

// CommandError is returned when an external command exits unsuccessfully
type CommandError struct {
	// Args is the full command line, binary first
	Args []string

	// Stderr is the trimmed standard error output
	Stderr string

	// Err is the underlying process error
	Err error
}

func (e *CommandError) Error() string {
	msg := "command failed: " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCommandFailed
func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}

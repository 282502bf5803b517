package cli

import "errors"

// Exit codes returned through CommandError.
const (
	// ExitRejected covers bad input, rejected operations and unreadable data.
	ExitRejected = 1
	// ExitSaveFailed means the data could not be written back.
	ExitSaveFailed = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after handling all output (printing errors/warnings to stderr).
// Main centralizes exit handling instead of commands calling os.Exit directly.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// ExitCode returns the process exit code for the error a command returned:
// 0 for nil, the carried code for a *CommandError and ExitRejected otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode()
	}
	return ExitRejected
}

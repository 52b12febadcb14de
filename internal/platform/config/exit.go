package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
)

// Exit codes returned by identpanel commands.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// ExitCode maps a command error to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, new(UsageError)):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// UsageError marks an error caused by bad command-line input.
type UsageError struct {
	Err error
}

func (e UsageError) Error() string { return e.Err.Error() }

func (e UsageError) Unwrap() error { return e.Err }

// Exit reports err on stderr, prefixed with the command name, and exits
// with ExitCode(err). A nil err or a help request returns without output.
func Exit(command string, err error) {
	code := ExitCode(err)
	if code == ExitOK {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
	os.Exit(code)
}

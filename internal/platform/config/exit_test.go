package config_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/identpanel/internal/platform/config"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", want: config.ExitOK},
		{name: "help", err: fmt.Errorf("parse: %w", flag.ErrHelp), want: config.ExitOK},
		{name: "interrupted", err: fmt.Errorf("console: %w", context.Canceled), want: config.ExitInterrupted},
		{name: "usage", err: config.UsageError{Err: errors.New("-player is required")}, want: config.ExitUsage},
		{name: "failure", err: errors.New("dial admin"), want: config.ExitFailure},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := config.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

// TestExit_WritesCommandAndCode runs Exit in a subprocess because os.Exit
// cannot be intercepted in-process.
func TestExit_WritesCommandAndCode(t *testing.T) {
	if os.Getenv("TEST_EXIT_SUBPROCESS") == "1" {
		config.Exit("console", config.UsageError{Err: errors.New("-player is required")})
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExit_WritesCommandAndCode$")
	cmd.Env = append(os.Environ(), "TEST_EXIT_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != config.ExitUsage {
		t.Fatalf("expected exit code %d, got %d", config.ExitUsage, exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "console: -player is required") {
		t.Fatalf("expected stderr to contain %q, got %q", "console: -player is required", string(out))
	}
}

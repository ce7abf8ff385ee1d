// Package sysrun provides a minimal abstraction over external command
// execution so that callers can be tested without touching the host.
package sysrun

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
// Implementations must honor context cancellation.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec on the host.
type ExecRunner struct{}

// Run executes the command and returns trimmed combined output.
// On failure the output is included in the returned error, since the
// commands driven through this runner (systemctl, sudo, the agent CLI)
// report their diagnostics on stdout/stderr rather than the exit code.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	// #nosec G204 - command names and arguments come from internal callers, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	if err != nil {
		if out != "" {
			return out, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, out)
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

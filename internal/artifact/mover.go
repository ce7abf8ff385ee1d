package artifact

import (
	"context"

	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// SudoMover moves the staged binary with `sudo mv`, matching how the
// original installer gained write access to the system executable
// directory.
type SudoMover struct {
	Runner sysrun.Runner
}

// NewSudoMover returns a mover backed by the given runner.
func NewSudoMover(runner sysrun.Runner) *SudoMover {
	return &SudoMover{Runner: runner}
}

// Move moves src to dst under sudo.
func (m *SudoMover) Move(ctx context.Context, src, dst string) error {
	_, err := m.Runner.Run(ctx, "sudo", "mv", src, dst)
	return err
}

package platform

import (
	"context"

	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// UnameProbe detects the host architecture with `uname -m`, matching what
// the agent's own build matrix keys on.
type UnameProbe struct {
	Runner sysrun.Runner
}

// NewUnameProbe returns a probe backed by the given runner.
func NewUnameProbe(runner sysrun.Runner) *UnameProbe {
	return &UnameProbe{Runner: runner}
}

// Arch returns the machine hardware name reported by uname.
func (p *UnameProbe) Arch(ctx context.Context) (string, error) {
	return p.Runner.Run(ctx, "uname", "-m")
}

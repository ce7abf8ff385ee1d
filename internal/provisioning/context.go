package provisioning

import (
	"context"

	"github.com/edgelink/edgectl/internal/agentconfig"
	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/identity"
	"github.com/edgelink/edgectl/internal/platform"
)

// State holds the shared results of pipeline steps. It is progressively
// populated as each step completes and read by the steps that follow.
type State struct {
	// Resolution results
	Identity identity.Resolved
	Platform platform.Tag

	// Synthesis result
	AgentConfig *agentconfig.Config

	// Artifact results
	StagedPath    string
	InstalledPath string

	// ConfigPath is where the agent configuration is persisted.
	ConfigPath string
}

// Context wraps the dependencies and state shared by every pipeline step.
type Context struct {
	context.Context
	Request  *config.Request
	State    *State
	Observer Observer
}

// NewContext creates a pipeline context for one run.
func NewContext(ctx context.Context, req *config.Request, configPath string, observer Observer) *Context {
	return &Context{
		Context:  ctx,
		Request:  req,
		State:    &State{ConfigPath: configPath},
		Observer: observer,
	}
}

// Package service drives the installed agent binary and systemd through the
// configure/login/register/start/enable sequence.
//
// The sequence is a strict finite-state pipeline: each step runs at most
// once, in order, and a failure halts forward progress at the current state.
// There is no automatic rollback; the reported state tells the operator
// exactly where to resume by hand.
package service

import (
	"context"
	"fmt"

	"github.com/edgelink/edgectl/internal/agentconfig"
	"github.com/edgelink/edgectl/internal/util/retry"
	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// Name is the systemd unit name the agent registers itself under.
const Name = "edgelink-agent"

// State is a position in the provisioning pipeline.
type State string

const (
	StateUnconfigured      State = "unconfigured"
	StateConfigWritten     State = "config-written"
	StateLoggedIn          State = "logged-in"
	StateServiceRegistered State = "service-registered"
	StateDaemonReloaded    State = "daemon-reloaded"
	StateStarted           State = "started"
	StateEnabled           State = "enabled" // terminal
)

// TransitionError reports a step invoked out of order. It indicates a bug in
// the caller, not a host failure.
type TransitionError struct {
	From     State
	Required State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid service transition: in state %q, step requires %q", e.From, e.Required)
}

// Provisioner walks the agent service through its lifecycle. It is not safe
// for concurrent use; one provisioner belongs to one run.
type Provisioner struct {
	runner     sysrun.Runner
	agentPath  string
	configPath string
	state      State

	// loginRetry configures the bounded retry around the login call, the
	// one step that talks to the remote endpoint through the agent CLI.
	loginRetry []retry.Option
}

// New returns a provisioner in the unconfigured state.
// agentPath is the installed agent binary; configPath is where the agent
// config was or will be persisted.
func New(runner sysrun.Runner, agentPath, configPath string, loginRetry ...retry.Option) *Provisioner {
	return &Provisioner{
		runner:     runner,
		agentPath:  agentPath,
		configPath: configPath,
		state:      StateUnconfigured,
		loginRetry: loginRetry,
	}
}

// State returns the last completed pipeline state.
func (p *Provisioner) State() State {
	return p.state
}

// WriteConfig persists the agent configuration to the config path.
func (p *Provisioner) WriteConfig(_ context.Context, cfg *agentconfig.Config) error {
	if err := p.require(StateUnconfigured); err != nil {
		return err
	}
	if err := cfg.WriteFile(p.configPath); err != nil {
		return err
	}
	p.state = StateConfigWritten
	return nil
}

// Login authenticates the installed agent against the remote endpoint.
// Transient failures are retried with backoff; the device's uplink is often
// still settling when provisioning runs at first boot.
func (p *Provisioner) Login(ctx context.Context, authToken string) error {
	if err := p.require(StateConfigWritten); err != nil {
		return err
	}

	err := retry.Do(ctx, func() error {
		_, runErr := p.runner.Run(ctx, p.agentPath, "login", "--token", authToken)
		return runErr
	}, p.loginRetry...)
	if err != nil {
		return fmt.Errorf("agent login failed: %w", err)
	}

	p.state = StateLoggedIn
	return nil
}

// InstallService registers the agent as a managed background service
// referencing the persisted config.
func (p *Provisioner) InstallService(ctx context.Context) error {
	if err := p.require(StateLoggedIn); err != nil {
		return err
	}
	if _, err := p.runner.Run(ctx, p.agentPath, "service", "install", "--config", p.configPath); err != nil {
		return fmt.Errorf("service registration failed: %w", err)
	}
	p.state = StateServiceRegistered
	return nil
}

// DaemonReload makes systemd pick up the new unit definition.
func (p *Provisioner) DaemonReload(ctx context.Context) error {
	if err := p.require(StateServiceRegistered); err != nil {
		return err
	}
	if _, err := p.runner.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon reload failed: %w", err)
	}
	p.state = StateDaemonReloaded
	return nil
}

// Start starts the agent service.
func (p *Provisioner) Start(ctx context.Context) error {
	if err := p.require(StateDaemonReloaded); err != nil {
		return err
	}
	if _, err := p.runner.Run(ctx, "systemctl", "start", Name); err != nil {
		return fmt.Errorf("service start failed: %w", err)
	}
	p.state = StateStarted
	return nil
}

// Enable enables the agent service for automatic start on boot, the
// pipeline's terminal state.
func (p *Provisioner) Enable(ctx context.Context) error {
	if err := p.require(StateStarted); err != nil {
		return err
	}
	if _, err := p.runner.Run(ctx, "systemctl", "enable", Name); err != nil {
		return fmt.Errorf("service enable failed: %w", err)
	}
	p.state = StateEnabled
	return nil
}

func (p *Provisioner) require(s State) error {
	if p.state != s {
		return &TransitionError{From: p.state, Required: s}
	}
	return nil
}

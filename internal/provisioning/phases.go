package provisioning

import (
	"fmt"

	"github.com/edgelink/edgectl/internal/agentconfig"
	"github.com/edgelink/edgectl/internal/artifact"
	"github.com/edgelink/edgectl/internal/identity"
	"github.com/edgelink/edgectl/internal/platform"
	"github.com/edgelink/edgectl/internal/service"
	"github.com/edgelink/edgectl/internal/util/retry"
	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// identityPhase resolves the device identity.
type identityPhase struct {
	probe identity.HardwareProbe
}

func (identityPhase) Name() string      { return "resolve-identity" }
func (identityPhase) FailureKind() Kind { return KindIdentityUnavailable }

func (p identityPhase) Provision(ctx *Context) error {
	resolved, err := identity.Resolve(ctx, ctx.Request.DeviceID, ctx.Request.DeviceName, ctx.Request.DeviceGroup, p.probe)
	if err != nil {
		return err
	}
	ctx.State.Identity = resolved
	ctx.Observer.Printf("resolved device identity: %s", resolved.DeviceID)
	return nil
}

// platformPhase resolves the artifact tag for the target architecture.
type platformPhase struct {
	probe platform.ArchProbe
}

func (platformPhase) Name() string      { return "resolve-platform" }
func (platformPhase) FailureKind() Kind { return KindInvalidPlatform }

func (p platformPhase) Provision(ctx *Context) error {
	tag, err := platform.Resolve(ctx, ctx.Request.Platform, p.probe)
	if err != nil {
		return err
	}
	ctx.State.Platform = tag
	ctx.Observer.Printf("resolved platform tag: %s", tag)
	return nil
}

// synthesizePhase builds the agent configuration. Pure; no I/O.
type synthesizePhase struct{}

func (synthesizePhase) Name() string      { return "synthesize-config" }
func (synthesizePhase) FailureKind() Kind { return KindUnsupportedScheme }

func (synthesizePhase) Provision(ctx *Context) error {
	cfg, err := agentconfig.Synthesize(ctx.Request, ctx.State.Identity)
	if err != nil {
		return err
	}
	ctx.State.AgentConfig = cfg
	return nil
}

// downloadPhase fetches the artifact into staging.
type downloadPhase struct {
	installer *artifact.Installer
}

func (downloadPhase) Name() string      { return "download-artifact" }
func (downloadPhase) FailureKind() Kind { return KindDownloadFailed }

func (p downloadPhase) Provision(ctx *Context) error {
	staged, err := p.installer.Download(ctx, ctx.State.Platform)
	if err != nil {
		return err
	}
	ctx.State.StagedPath = staged
	return nil
}

// installPhase moves the staged artifact into the system path.
type installPhase struct {
	installer *artifact.Installer
}

func (installPhase) Name() string      { return "install-artifact" }
func (installPhase) FailureKind() Kind { return KindInstallFailed }

func (p installPhase) Provision(ctx *Context) error {
	installed, err := p.installer.Install(ctx, ctx.State.StagedPath)
	if err != nil {
		return err
	}
	ctx.State.InstalledPath = installed
	ctx.Observer.Printf("agent installed at %s", installed)
	return nil
}

// serviceSteps holds the service provisioner shared by the lifecycle
// phases. The provisioner is created by the write-config phase, the first
// point where the installed artifact path is known.
type serviceSteps struct {
	runner     sysrun.Runner
	loginRetry []retry.Option
	prov       *service.Provisioner
}

type writeConfigPhase struct{ steps *serviceSteps }

func (writeConfigPhase) Name() string      { return "write-config" }
func (writeConfigPhase) FailureKind() Kind { return KindConfigWriteFailed }

func (p writeConfigPhase) Provision(ctx *Context) error {
	if ctx.State.InstalledPath == "" {
		return fmt.Errorf("no installed artifact path in pipeline state")
	}
	p.steps.prov = service.New(p.steps.runner, ctx.State.InstalledPath, ctx.State.ConfigPath, p.steps.loginRetry...)
	if err := p.steps.prov.WriteConfig(ctx, ctx.State.AgentConfig); err != nil {
		return err
	}
	ctx.Observer.Printf("agent config written to %s", ctx.State.ConfigPath)
	return nil
}

type loginPhase struct{ steps *serviceSteps }

func (loginPhase) Name() string      { return "login" }
func (loginPhase) FailureKind() Kind { return KindLoginFailed }

func (p loginPhase) Provision(ctx *Context) error {
	return p.steps.prov.Login(ctx, ctx.Request.AuthToken)
}

type serviceInstallPhase struct{ steps *serviceSteps }

func (serviceInstallPhase) Name() string      { return "service-install" }
func (serviceInstallPhase) FailureKind() Kind { return KindServiceInstall }

func (p serviceInstallPhase) Provision(ctx *Context) error {
	return p.steps.prov.InstallService(ctx)
}

type daemonReloadPhase struct{ steps *serviceSteps }

func (daemonReloadPhase) Name() string      { return "daemon-reload" }
func (daemonReloadPhase) FailureKind() Kind { return KindDaemonReload }

func (p daemonReloadPhase) Provision(ctx *Context) error {
	return p.steps.prov.DaemonReload(ctx)
}

type startPhase struct{ steps *serviceSteps }

func (startPhase) Name() string      { return "service-start" }
func (startPhase) FailureKind() Kind { return KindServiceStart }

func (p startPhase) Provision(ctx *Context) error {
	return p.steps.prov.Start(ctx)
}

type enablePhase struct{ steps *serviceSteps }

func (enablePhase) Name() string      { return "service-enable" }
func (enablePhase) FailureKind() Kind { return KindServiceEnable }

func (p enablePhase) Provision(ctx *Context) error {
	return p.steps.prov.Enable(ctx)
}

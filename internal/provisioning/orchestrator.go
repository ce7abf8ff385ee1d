package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/edgelink/edgectl/internal/artifact"
	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/identity"
	"github.com/edgelink/edgectl/internal/platform"
	"github.com/edgelink/edgectl/internal/util/retry"
	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// Deps are the capabilities one provisioning run needs. All external
// effects — hardware probes, network fetch, privileged moves, subprocess
// invocation — enter through here, so a run can execute entirely against
// fakes in tests.
type Deps struct {
	HardwareProbe identity.HardwareProbe
	ArchProbe     platform.ArchProbe
	Installer     *artifact.Installer
	Runner        sysrun.Runner

	// ConfigPath is where the agent config is persisted and locked.
	ConfigPath string

	// Observer receives run events; defaults to the console observer.
	Observer Observer

	// LoginRetry overrides the login step's retry policy (used in tests).
	LoginRetry []retry.Option
}

// Orchestrator sequences one idempotent provisioning run. It is the only
// place failures are converted into process-exit semantics, via the
// report's failure kind.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator returns an orchestrator over the given capabilities.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Observer == nil {
		deps.Observer = NewConsoleObserver()
	}
	return &Orchestrator{deps: deps}
}

// Run validates the request and executes the full pipeline, aggregating
// every step into the returned report. Run never panics and never exits the
// process; the caller maps report.Err() through ExitCode.
func (o *Orchestrator) Run(ctx context.Context, req *config.Request) *Report {
	report := &Report{RunID: uuid.NewString()}
	observer := o.deps.Observer.WithFields(map[string]string{"run_id": report.RunID})
	start := time.Now()

	observer.Event(Event{Type: EventRunStarted, Message: "provisioning run started"})

	defer func() {
		report.Duration = time.Since(start)
		if report.Succeeded() {
			observer.Event(Event{Type: EventRunCompleted, Message: "provisioning completed in " + report.Duration.Round(time.Millisecond).String()})
		} else {
			observer.Event(Event{
				Type:    EventRunFailed,
				Message: report.Failure.Error(),
				Fields:  map[string]string{"last_completed": report.LastCompleted},
			})
		}
	}()

	// Validation runs before any side effect; scheme errors get their own
	// kind so the exit code distinguishes them from missing input.
	if err := req.Validate(); err != nil {
		kind := KindValidation
		var schemeErr *config.UnsupportedSchemeError
		if errors.As(err, &schemeErr) {
			kind = KindUnsupportedScheme
		}
		report.recordFailure(NewFailure(kind, "validate-request", err), 0)
		return report
	}
	report.recordSuccess("validate-request", "", 0)

	release, err := AcquireLock(o.deps.ConfigPath)
	if err != nil {
		report.recordFailure(NewFailure(KindLockBusy, "acquire-lock", err), 0)
		return report
	}
	defer release()
	report.recordSuccess("acquire-lock", "", 0)

	steps := &serviceSteps{runner: o.deps.Runner, loginRetry: o.deps.LoginRetry}
	phases := []Phase{
		identityPhase{probe: o.deps.HardwareProbe},
		platformPhase{probe: o.deps.ArchProbe},
		synthesizePhase{},
		downloadPhase{installer: o.deps.Installer},
		installPhase{installer: o.deps.Installer},
		writeConfigPhase{steps: steps},
		loginPhase{steps: steps},
		serviceInstallPhase{steps: steps},
		daemonReloadPhase{steps: steps},
		startPhase{steps: steps},
		enablePhase{steps: steps},
	}

	pctx := NewContext(ctx, req, o.deps.ConfigPath, observer)
	_ = RunPhases(pctx, phases, report)
	return report
}

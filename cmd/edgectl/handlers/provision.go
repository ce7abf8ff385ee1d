// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/edgelink/edgectl/internal/agentconfig"
	"github.com/edgelink/edgectl/internal/artifact"
	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/identity"
	"github.com/edgelink/edgectl/internal/platform"
	"github.com/edgelink/edgectl/internal/provisioning"
	"github.com/edgelink/edgectl/internal/service"
	"github.com/edgelink/edgectl/internal/util/prerequisites"
	"github.com/edgelink/edgectl/internal/util/sysrun"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newRunner creates the subprocess runner used for every host command.
	newRunner = func() sysrun.Runner {
		return sysrun.ExecRunner{}
	}

	// newHardwareProbe creates the device serial number probe.
	newHardwareProbe = func() identity.HardwareProbe {
		return identity.NewProcProbe()
	}

	// newArchProbe creates the host architecture probe.
	newArchProbe = func(runner sysrun.Runner) platform.ArchProbe {
		return platform.NewUnameProbe(runner)
	}

	// newInstaller creates the artifact downloader/installer.
	newInstaller = func(runner sysrun.Runner) *artifact.Installer {
		return artifact.New(artifact.NewHTTPFetcher(), artifact.NewSudoMover(runner))
	}

	// defaultConfigPath resolves the agent config path.
	defaultConfigPath = agentconfig.DefaultPath

	// loadProfile loads a provisioning profile from file.
	loadProfile = config.LoadProfile

	// findProfile locates the default profile in the working directory.
	findProfile = config.FindProfile

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// runOrchestrator executes a provisioning run.
	runOrchestrator = func(ctx context.Context, deps provisioning.Deps, req *config.Request) *provisioning.Report {
		return provisioning.NewOrchestrator(deps).Run(ctx, req)
	}
)

// Provision resolves the request against an optional profile and runs the
// full provisioning pipeline.
//
// The run is idempotent: re-running it downloads the current agent binary,
// rewrites the configuration and re-registers the service, converging the
// device to the same state. The returned error carries the failed step's
// exit code, which main maps onto the process exit status.
func Provision(ctx context.Context, req *config.Request, profilePath string, timeout time.Duration) error {
	if err := applyProfile(req, profilePath); err != nil {
		return err
	}

	if err := checkPrerequisites(); err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	configPath, err := defaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to resolve agent config path: %w", err)
	}

	runner := newRunner()
	report := runOrchestrator(ctx, provisioning.Deps{
		HardwareProbe: newHardwareProbe(),
		ArchProbe:     newArchProbe(runner),
		Installer:     newInstaller(runner),
		Runner:        runner,
		ConfigPath:    configPath,
	}, req)

	if !report.Succeeded() {
		printProvisionFailure(report)
		return report.Err()
	}

	printProvisionSuccess(report, configPath)
	return nil
}

// applyProfile fills empty request fields from a profile file. An explicit
// --profile path must load; the default edgelink.yaml is optional.
func applyProfile(req *config.Request, profilePath string) error {
	if profilePath == "" {
		path, err := findProfile()
		if err != nil {
			return nil
		}
		profilePath = path
	}

	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}

	profile.Apply(req)
	return nil
}

// checkPrerequisites verifies required host tools before any side effect.
func checkPrerequisites() error {
	results := checkDefaultPrereqs()
	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}

// printProvisionSuccess outputs completion message and next steps.
func printProvisionSuccess(report *provisioning.Report, configPath string) {
	fmt.Printf("\nProvisioning complete in %s.\n", report.Duration.Round(time.Millisecond))
	fmt.Printf("Agent config saved to: %s\n", configPath)
	fmt.Printf("Service registered as: %s\n", service.Name)
	fmt.Println()
	fmt.Println("Check the agent with:")
	fmt.Printf("  systemctl status %s\n", service.Name)
	fmt.Printf("  edgectl doctor\n")
}

// printProvisionFailure outputs where the run stopped so an operator can
// resume by hand.
func printProvisionFailure(report *provisioning.Report) {
	fmt.Println()
	for _, step := range report.Steps {
		marker := "ok  "
		if step.Outcome == provisioning.OutcomeFailure {
			marker = "FAIL"
		}
		fmt.Printf("  %s  %s\n", marker, step.Step)
	}
	if report.LastCompleted != "" {
		fmt.Printf("\nLast completed step: %s\n", report.LastCompleted)
	}
}

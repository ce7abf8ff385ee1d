package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/config/wizard"
)

// errNotInteractive is returned when init runs without a terminal.
var errNotInteractive = errors.New("init needs an interactive terminal; pass flags to 'edgectl provision' instead")

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive profile wizard.
	runWizard = wizard.Run

	// writeProfile writes the profile to a file.
	writeProfile = func(p *config.Profile, path string) error {
		return p.Write(path)
	}

	// stdoutIsTerminal reports whether stdout is an interactive terminal.
	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// Init runs the profile wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if !stdoutIsTerminal() {
		return errNotInteractive
	}

	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	profile := result.ToProfile()

	if err := writeProfile(profile, outputPath); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	printInitSuccess(outputPath, profile)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("edgectl - edgelink agent provisioning")
	fmt.Println("=====================================")
	fmt.Println()
	fmt.Println("This wizard creates a provisioning profile with sensible defaults.")
	fmt.Println("Every answer can be overridden later with provision flags.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, profile *config.Profile) {
	fmt.Println()
	fmt.Println("Profile saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Profile Summary")
	fmt.Println("---------------")
	if profile.DeviceID != "" {
		fmt.Printf("  Device ID:    %s\n", profile.DeviceID)
	} else {
		fmt.Printf("  Device ID:    hardware serial number (probed)\n")
	}
	if profile.DeviceName != "" {
		fmt.Printf("  Device Name:  %s\n", profile.DeviceName)
	}
	if profile.DeviceGroup != "" {
		fmt.Printf("  Device Group: %s\n", profile.DeviceGroup)
	}
	if profile.Platform != "" {
		fmt.Printf("  Platform:     %s\n", profile.Platform)
	} else {
		fmt.Printf("  Platform:     auto-detect\n")
	}
	if profile.LocalDestination != "" {
		fmt.Printf("  Destination:  %s\n", profile.LocalDestination)
	} else {
		fmt.Printf("  Destination:  tcp://127.0.0.1:22 (SSH)\n")
	}
	if profile.SubdomainPrefix != "" {
		fmt.Printf("  Subdomain:    %s-<device-id>\n", profile.SubdomainPrefix)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	if profile.AuthToken == "" {
		fmt.Println("  1. Provision with your account token:")
		fmt.Println("     edgectl provision -a <your-token>")
	} else {
		fmt.Println("  1. Provision the device:")
		fmt.Println("     edgectl provision")
	}
	fmt.Println()
	fmt.Println("  2. Check the result:")
	fmt.Println("     edgectl doctor")
	fmt.Println()
}

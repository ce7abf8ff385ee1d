package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/edgelink/edgectl/internal/artifact"
	"github.com/edgelink/edgectl/internal/platform"
	"github.com/edgelink/edgectl/internal/service"
	"github.com/edgelink/edgectl/internal/util/prerequisites"
)

// DoctorStatus is the device diagnostic report.
type DoctorStatus struct {
	Platform    string        `json:"platform,omitempty"`
	Serial      string        `json:"serial,omitempty"`
	Tools       []ToolStatus  `json:"tools"`
	AgentBinary FileCheck     `json:"agentBinary"`
	AgentConfig FileCheck     `json:"agentConfig"`
	Service     ServiceHealth `json:"service"`
}

// ToolStatus reports one host tool check.
type ToolStatus struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
}

// FileCheck reports presence of an installed file.
type FileCheck struct {
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

// ServiceHealth reports the systemd unit state of the agent.
type ServiceHealth struct {
	Name    string `json:"name"`
	Active  bool   `json:"active"`
	Enabled bool   `json:"enabled"`
}

// Factory function variables for doctor - can be replaced in tests.
var (
	// checkAllPrereqs checks required and optional host tools.
	checkAllPrereqs = prerequisites.CheckAll
)

// Doctor collects the device diagnostic report and renders it.
//
// The command never fails on an unhealthy device; it reports what it finds
// and leaves acting on it to the operator.
func Doctor(ctx context.Context, jsonOutput bool) error {
	status := collectDoctorStatus(ctx)

	if jsonOutput {
		return printDoctorJSON(status)
	}

	printDoctorFormatted(status)
	return nil
}

func collectDoctorStatus(ctx context.Context) *DoctorStatus {
	runner := newRunner()
	status := &DoctorStatus{
		Service: ServiceHealth{Name: service.Name},
	}

	results := checkAllPrereqs()
	for _, r := range results.Results {
		status.Tools = append(status.Tools, ToolStatus{
			Name:     r.Tool.Name,
			Required: r.Tool.Required,
			Found:    r.Found,
			Version:  r.Version,
		})
	}

	if tag, err := platform.Resolve(ctx, "", newArchProbe(runner)); err == nil {
		status.Platform = string(tag)
	}

	if serial, err := newHardwareProbe().SerialNumber(ctx); err == nil {
		status.Serial = strings.TrimSpace(serial)
	}

	binaryPath := filepath.Join(artifact.DefaultInstallDir, artifact.BinaryName)
	status.AgentBinary = FileCheck{Path: binaryPath, Present: fileExists(binaryPath)}

	if configPath, err := defaultConfigPath(); err == nil {
		status.AgentConfig = FileCheck{Path: configPath, Present: fileExists(configPath)}
	}

	// is-active/is-enabled exit non-zero for inactive units; treat any
	// error as "not in that state".
	if out, err := runner.Run(ctx, "systemctl", "is-active", service.Name); err == nil {
		status.Service.Active = strings.TrimSpace(out) == "active"
	}
	if out, err := runner.Run(ctx, "systemctl", "is-enabled", service.Name); err == nil {
		status.Service.Enabled = strings.TrimSpace(out) == "enabled"
	}

	return status
}

// printDoctorJSON outputs status as JSON.
func printDoctorJSON(status *DoctorStatus) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printDoctorFormatted outputs the status as a styled report.
func printDoctorFormatted(status *DoctorStatus) {
	fmt.Println()
	printHeader("edgectl doctor")

	fmt.Println(sectionStyle.Render("  Host Tools"))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("─", 35)))
	for _, tool := range status.Tools {
		extra := tool.Version
		if !tool.Found && !tool.Required {
			extra = "optional"
		}
		printRow(tool.Name, tool.Found, extra)
	}
	fmt.Println()

	fmt.Println(sectionStyle.Render("  Device"))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("─", 35)))
	printRow("Platform", status.Platform != "", status.Platform)
	printRow("Serial number", status.Serial != "", status.Serial)
	fmt.Println()

	fmt.Println(sectionStyle.Render("  Agent"))
	fmt.Println(dimStyle.Render("  " + strings.Repeat("─", 35)))
	printRow("Binary", status.AgentBinary.Present, status.AgentBinary.Path)
	printRow("Config", status.AgentConfig.Present, status.AgentConfig.Path)
	printRow("Service active", status.Service.Active, status.Service.Name)
	printRow("Service enabled", status.Service.Enabled, status.Service.Name)
	fmt.Println()

	if !status.AgentBinary.Present {
		fmt.Println(dimStyle.Render("  Run 'edgectl provision' to install the agent."))
		fmt.Println()
	}
}

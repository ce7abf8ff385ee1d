// Package main is the entry point for the edgectl CLI.
//
// edgectl provisions the edgelink tunnel agent on a Linux device. It
// resolves the device identity and platform, downloads the matching agent
// binary, writes the agent configuration, and registers the agent as a
// systemd service in a single idempotent run.
//
// Commands: provision, init, doctor, version, completion.
//
// For detailed usage information, run:
//
//	edgectl --help
package main

import (
	"fmt"
	"os"

	"github.com/edgelink/edgectl/cmd/edgectl/commands"
	"github.com/edgelink/edgectl/internal/provisioning"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(provisioning.ExitCode(err))
	}
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/edgelink/edgectl/cmd/edgectl/handlers"
)

// Init returns the command for interactively creating a provisioning
// profile.
//
// Flags:
//
//	--output, -o: Path to output file (default "edgelink.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a provisioning profile",
		Long: `Interactively create a provisioning profile.

This command guides you through configuring the agent step by step.
It will ask about:

  - Device identity (id, name, group)
  - Target platform (or auto-detect)
  - Tunnel destination (SSH, TCP or HTTP)
  - Auth token handling

The resulting profile is picked up automatically by 'edgectl provision'
when it sits in the working directory, and any flag you pass to provision
overrides the profile value.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "edgelink.yaml", "Output file path")

	return cmd
}

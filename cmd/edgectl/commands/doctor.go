package commands

import (
	"github.com/spf13/cobra"

	"github.com/edgelink/edgectl/cmd/edgectl/handlers"
)

// Doctor returns the command for diagnosing the device and a previous
// provisioning run.
//
// Flags:
//
//	--json: Output machine-readable JSON instead of the formatted report
func Doctor() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose this device and the installed agent",
		Long: `Check whether this device is ready to provision, and report the state
of an already provisioned agent.

The report covers host tools (systemctl, sudo, uname), the detected
platform, the agent binary and configuration, and the systemd service
state.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")

	return cmd
}

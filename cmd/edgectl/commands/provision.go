package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/edgelink/edgectl/cmd/edgectl/handlers"
	"github.com/edgelink/edgectl/internal/config"
)

// Provision returns the command that installs and registers the agent.
//
// The only required input is the auth token; everything else is resolved
// from the device. Each exit code identifies the step that failed, so the
// command is safe to drive from fleet automation.
//
// Optional flags:
//
//	--profile, -c: Path to a provisioning profile YAML (default: auto-detect edgelink.yaml)
//	--timeout: Abort the run after this duration (default: no timeout)
func Provision() *cobra.Command {
	var (
		req         config.Request
		profilePath string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Install and register the agent on this device",
		Long: `Install the edgelink agent and register it as a systemd service.

The run downloads the agent binary for this device's platform, writes the
agent configuration, logs the agent in with your auth token, and starts
and enables the service. Running it again converges to the same state.

If no device id is given, the hardware serial number is used. If no
destination is given, the tunnel exposes SSH on this device.

Examples:
  # Provision with the defaults (SSH tunnel, probed identity)
  edgectl provision -a $EDGELINK_TOKEN

  # Expose a local HTTP service under shop-<device-id>
  edgectl provision -a $EDGELINK_TOKEN -l http://localhost:8080 -s shop

  # Use a profile written by 'edgectl init'
  edgectl provision -c edgelink.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), &req, profilePath, timeout)
		},
	}

	cmd.Flags().StringVarP(&req.AuthToken, "auth-token", "a", "", "Account auth token (required unless set in the profile)")
	cmd.Flags().StringVarP(&req.DeviceID, "device-id", "d", "", "Device id (default: hardware serial number)")
	cmd.Flags().StringVarP(&req.DeviceName, "device-name", "n", "", "Human-readable device name")
	cmd.Flags().StringVarP(&req.DeviceGroup, "device-group", "g", "", "Fleet group for the device")
	cmd.Flags().StringVarP(&req.Platform, "platform", "p", "", "Target platform: arm, arm64 or amd64 (default: probe with uname)")
	cmd.Flags().StringVarP(&req.LocalDestination, "local-destination", "l", "", "Tunnel destination URL (default: tcp://127.0.0.1:22)")
	cmd.Flags().StringVarP(&req.SubdomainPrefix, "subdomain-prefix", "s", "", "Subdomain prefix for http destinations")
	cmd.Flags().StringVarP(&profilePath, "profile", "c", "", "Path to profile file (default: edgelink.yaml)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort the run after this duration (e.g. 5m)")

	return cmd
}

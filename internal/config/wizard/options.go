package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/edgelink/edgectl/internal/platform"
)

// PlatformAuto leaves the platform empty so provisioning probes the
// hardware at run time.
const PlatformAuto = ""

// PlatformOptions are the selectable target platforms.
var PlatformOptions = []huh.Option[string]{
	huh.NewOption("Auto-detect (recommended)", PlatformAuto),
	huh.NewOption("ARM (32-bit)", platform.FlagARM),
	huh.NewOption("ARM64", platform.FlagARM64),
	huh.NewOption("AMD64 / x86_64", platform.FlagAMD64),
}

// DestinationOptions are the selectable tunnel destination modes.
var DestinationOptions = []huh.Option[string]{
	huh.NewOption("SSH on this device (default)", DestinationSSH),
	huh.NewOption("Custom TCP endpoint", DestinationTCP),
	huh.NewOption("Local HTTP service", DestinationHTTP),
}

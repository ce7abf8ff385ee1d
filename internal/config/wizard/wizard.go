// Package wizard implements the interactive profile setup behind
// `edgectl init`.
package wizard

import (
	"context"
	"fmt"

	"github.com/edgelink/edgectl/internal/config"
)

// Destination modes offered by the wizard. The default keeps the original
// remote-SSH behavior; the other two map to explicit local destinations.
const (
	DestinationSSH  = "ssh"
	DestinationTCP  = "tcp"
	DestinationHTTP = "http"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Identity
	DeviceID    string
	DeviceName  string
	DeviceGroup string

	// Platform ("" means auto-detect at provision time)
	Platform string

	// Destination
	DestinationMode string
	Destination     string
	SubdomainPrefix string

	// Auth token, only persisted when SaveToken is set.
	AuthToken string
	SaveToken bool
}

// Run runs the interactive profile wizard. The context is used for
// cancellation support (e.g. Ctrl+C).
func Run(ctx context.Context) (*Result, error) {
	result := &Result{DestinationMode: DestinationSSH}

	if err := runIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}

	if err := runPlatformGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("platform: %w", err)
	}

	if err := runDestinationGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	if err := runTokenGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("auth token: %w", err)
	}

	return result, nil
}

// ToProfile converts the wizard answers into a provisioning profile.
func (r *Result) ToProfile() *config.Profile {
	profile := &config.Profile{
		DeviceID:    r.DeviceID,
		DeviceName:  r.DeviceName,
		DeviceGroup: r.DeviceGroup,
		Platform:    r.Platform,
	}

	switch r.DestinationMode {
	case DestinationTCP:
		profile.LocalDestination = r.Destination
	case DestinationHTTP:
		profile.LocalDestination = r.Destination
		profile.SubdomainPrefix = r.SubdomainPrefix
	}

	if r.SaveToken {
		profile.AuthToken = r.AuthToken
	}

	return profile
}

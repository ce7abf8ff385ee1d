// Package agentconfig synthesizes the JSON configuration document consumed
// by the edgelink agent binary.
//
// The JSON shape is a compatibility contract: field names must match what
// the agent parses byte-for-byte, including the historical lowercase
// "authtoken" and the iot_* identity fields. Synthesis is a pure function of
// the request and the resolved identity so the output can be golden-tested.
package agentconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/identity"
)

// DefaultDestination is the tunnel target used when no local destination is
// given: the device's own SSH port, the original remote-access use case.
const DefaultDestination = "tcp://127.0.0.1:22"

// configDirName and configFileName locate the persisted config under the
// invoking user's home directory.
const (
	configDirName  = ".edgelink"
	configFileName = "config.json"
)

// Tunnel is one forwarding rule the agent will establish. Identity fields
// are present for tcp tunnels and omitted for http tunnels, which route by
// subdomain instead.
type Tunnel struct {
	Destination  string `json:"destination"`
	Protocol     string `json:"protocol"`
	DeviceID     string `json:"iot_device_id,omitempty"`
	DeviceName   string `json:"iot_device_name,omitempty"`
	DeviceGroup  string `json:"iot_device_group,omitempty"`
	CustomDomain string `json:"custom_domain,omitempty"`
	Subdomain    string `json:"subdomain,omitempty"`
}

// Config is the agent's full configuration document. Tunnels is an ordered
// sequence; provisioning writes a single entry today but the agent accepts
// several.
type Config struct {
	AuthToken     string   `json:"authtoken"`
	TunnelEnabled bool     `json:"tunnel_enabled"`
	Tunnels       []Tunnel `json:"tunnels"`
}

// Synthesize builds the agent configuration from the validated request and
// resolved identity. It performs no I/O and is deterministic: identical
// inputs marshal to identical bytes.
func Synthesize(req *config.Request, id identity.Resolved) (*Config, error) {
	tunnel, err := synthesizeTunnel(req, id)
	if err != nil {
		return nil, err
	}

	return &Config{
		AuthToken:     req.AuthToken,
		TunnelEnabled: true,
		Tunnels:       []Tunnel{tunnel},
	}, nil
}

func synthesizeTunnel(req *config.Request, id identity.Resolved) (Tunnel, error) {
	if req.LocalDestination == "" {
		return Tunnel{
			Destination: DefaultDestination,
			Protocol:    config.SchemeTCP,
			DeviceID:    id.DeviceID,
			DeviceName:  id.DeviceName,
			DeviceGroup: id.DeviceGroup,
		}, nil
	}

	dest, err := config.ParseDestination(req.LocalDestination)
	if err != nil {
		return Tunnel{}, err
	}

	switch dest.Scheme {
	case config.SchemeHTTP:
		return Tunnel{
			Destination: req.LocalDestination,
			Protocol:    config.SchemeHTTP,
			Subdomain:   fmt.Sprintf("%s-%s", req.SubdomainPrefix, id.DeviceID),
		}, nil
	case config.SchemeTCP:
		return Tunnel{
			Destination: req.LocalDestination,
			Protocol:    config.SchemeTCP,
			DeviceID:    id.DeviceID,
			DeviceName:  id.DeviceName,
			DeviceGroup: id.DeviceGroup,
		}, nil
	default:
		// Unreachable after request validation; kept so synthesis stays
		// safe when called directly.
		return Tunnel{}, &config.UnsupportedSchemeError{Scheme: dest.Scheme}
	}
}

// Marshal serializes the config with stable field order and a trailing
// newline, the exact bytes written to disk.
func (c *Config) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal agent config: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultPath returns the well-known config location for the invoking user.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// WriteFile persists the config at path, creating the parent directory. The
// file carries the auth token, so it is not group or world readable.
func (c *Config) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write agent config: %w", err)
	}

	return nil
}

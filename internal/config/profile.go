package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultProfileName is the profile file looked up in the working directory
// when --profile is not given.
const DefaultProfileName = "edgelink.yaml"

// Profile holds provisioning defaults persisted by `edgectl init`.
// Every field maps to a provision flag; explicit flags win over the profile.
//
// The auth token is only persisted when the user opts in during init, since
// the profile is a plain file that may end up in version control.
type Profile struct {
	AuthToken        string `yaml:"auth_token,omitempty"`
	DeviceID         string `yaml:"device_id,omitempty"`
	DeviceName       string `yaml:"device_name,omitempty"`
	DeviceGroup      string `yaml:"device_group,omitempty"`
	Platform         string `yaml:"platform,omitempty"`
	LocalDestination string `yaml:"local_destination,omitempty"`
	SubdomainPrefix  string `yaml:"subdomain_prefix,omitempty"`
}

// LoadProfile reads and decodes a profile file. Unknown fields are rejected
// so that a typo in the profile fails loudly instead of being ignored.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return &profile, nil
}

// FindProfile returns the default profile path if it exists in the current
// directory.
func FindProfile() (string, error) {
	if _, err := os.Stat(DefaultProfileName); err != nil {
		return "", fmt.Errorf("profile %s not found", DefaultProfileName)
	}
	return DefaultProfileName, nil
}

// Write persists the profile with a descriptive header.
func (p *Profile) Write(path string) error {
	yamlBytes, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(path))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// Apply fills empty request fields from the profile. Flag values already set
// on the request are left untouched.
func (p *Profile) Apply(r *Request) {
	if r.AuthToken == "" {
		r.AuthToken = p.AuthToken
	}
	if r.DeviceID == "" {
		r.DeviceID = p.DeviceID
	}
	if r.DeviceName == "" {
		r.DeviceName = p.DeviceName
	}
	if r.DeviceGroup == "" {
		r.DeviceGroup = p.DeviceGroup
	}
	if r.Platform == "" {
		r.Platform = p.Platform
	}
	if r.LocalDestination == "" {
		r.LocalDestination = p.LocalDestination
	}
	if r.SubdomainPrefix == "" {
		r.SubdomainPrefix = p.SubdomainPrefix
	}
}

func generateHeader(path string) string {
	return fmt.Sprintf(`# edgelink provisioning profile
# Generated by edgectl init on %s
#
# Values here are defaults for 'edgectl provision'; command-line flags
# override them. Re-run 'edgectl init' to regenerate %s.
`, time.Now().Format("2006-01-02"), path)
}

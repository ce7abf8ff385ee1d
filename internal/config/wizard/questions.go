package wizard

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"
)

// subdomainRegex validates subdomain prefix format: 1-32 lowercase alphanumeric with hyphens.
var subdomainRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runIdentityGroup prompts for the device identity fields.
func runIdentityGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Device ID (Optional)").
				Description("Leave empty to use the hardware serial number").
				Placeholder("10000000abcdef01").
				Value(&result.DeviceID),
			huh.NewInput().
				Title("Device Name (Optional)").
				Description("Human-readable label for the device").
				Placeholder("warehouse-gateway").
				Value(&result.DeviceName),
			huh.NewInput().
				Title("Device Group (Optional)").
				Description("Fleet group the device belongs to").
				Placeholder("production").
				Value(&result.DeviceGroup),
		).Title("Device Identity"),
	).RunWithContext(ctx)
}

// runPlatformGroup prompts for the target platform.
func runPlatformGroup(ctx context.Context, result *Result) error {
	result.Platform = PlatformAuto // default

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Platform").
				Description("CPU architecture of this device").
				Options(PlatformOptions...).
				Value(&result.Platform),
		).Title("Platform"),
	).RunWithContext(ctx)
}

// runDestinationGroup prompts for the tunnel destination.
func runDestinationGroup(ctx context.Context, result *Result) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tunnel Destination").
				Description("What should the tunnel expose?").
				Options(DestinationOptions...).
				Value(&result.DestinationMode),
		).Title("Destination"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	switch result.DestinationMode {
	case DestinationTCP:
		result.Destination = "tcp://127.0.0.1:22"

		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("TCP Destination").
					Description("Local TCP endpoint to tunnel").
					Placeholder("tcp://127.0.0.1:5900").
					Value(&result.Destination).
					Validate(validateTCPDestination),
			).Title("TCP Destination"),
		).RunWithContext(ctx)

	case DestinationHTTP:
		result.Destination = "http://localhost:8080"

		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("HTTP Destination").
					Description("Local HTTP endpoint to tunnel").
					Placeholder("http://localhost:8080").
					Value(&result.Destination).
					Validate(validateHTTPDestination),
				huh.NewInput().
					Title("Subdomain Prefix").
					Description("Public subdomain becomes <prefix>-<device-id>").
					Placeholder("shop").
					Value(&result.SubdomainPrefix).
					Validate(validateSubdomainPrefix),
			).Title("HTTP Destination"),
		).RunWithContext(ctx)
	}

	return nil
}

// runTokenGroup prompts for the auth token and whether to persist it.
func runTokenGroup(ctx context.Context, result *Result) error {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Auth Token (Optional)").
				Description("Account token used to register the agent").
				EchoMode(huh.EchoModePassword).
				Value(&result.AuthToken),
		).Title("Authentication"),
	).RunWithContext(ctx)

	if err != nil {
		return err
	}

	if result.AuthToken == "" {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Token to Profile?").
				Description("The profile file is written with mode 0600. Decline to pass the token per run instead.").
				Value(&result.SaveToken),
		).Title("Authentication"),
	).RunWithContext(ctx)
}

// validateTCPDestination validates a tcp:// destination URL.
func validateTCPDestination(s string) error {
	return validateDestination(s, "tcp")
}

// validateHTTPDestination validates an http:// destination URL.
func validateHTTPDestination(s string) error {
	return validateDestination(s, "http")
}

func validateDestination(s, scheme string) error {
	if s == "" {
		return errDestinationRequired
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Scheme != scheme || u.Host == "" {
		return errDestinationInvalid
	}
	return nil
}

// validateSubdomainPrefix validates the subdomain prefix format.
func validateSubdomainPrefix(s string) error {
	if s == "" {
		return errSubdomainRequired
	}
	if !subdomainRegex.MatchString(s) {
		return errSubdomainInvalid
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Destination schemes accepted for --local-destination.
const (
	SchemeTCP  = "tcp"
	SchemeHTTP = "http"
)

// Validation errors reported before any side-effecting step runs.
var (
	ErrAuthTokenRequired = errors.New("auth token is required (--auth-token)")

	// ErrSubdomainPrefixRequired is returned when an http destination is
	// given without --subdomain-prefix; the prefix is needed to derive the
	// tunnel subdomain from the device id.
	ErrSubdomainPrefixRequired = errors.New("subdomain prefix is required for http destinations (--subdomain-prefix)")
)

// UnsupportedSchemeError is returned for destination URIs whose scheme is
// neither tcp nor http. The shell-era behavior of substring-matching the
// destination silently fell through on unknown schemes; here they are
// rejected explicitly.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported destination scheme %q (supported: tcp, http)", e.Scheme)
}

// Request is the immutable input to one provisioning run.
//
// AuthToken is always required. LocalDestination, when set, must be a URI
// with scheme tcp or http; SubdomainPrefix is required exactly when the
// scheme is http. DeviceName and DeviceGroup left empty are resolved to the
// literal "None" downstream, which the agent's config consumers treat as the
// documented absence marker.
type Request struct {
	AuthToken        string
	DeviceID         string
	DeviceName       string
	DeviceGroup      string
	Platform         string
	LocalDestination string
	SubdomainPrefix  string
}

// Validate checks the request invariants. It is called by the orchestrator
// before any resolver or side-effecting component is invoked.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.AuthToken) == "" {
		return ErrAuthTokenRequired
	}

	if r.LocalDestination == "" {
		return nil
	}

	dest, err := ParseDestination(r.LocalDestination)
	if err != nil {
		return err
	}

	if dest.Scheme == SchemeHTTP && strings.TrimSpace(r.SubdomainPrefix) == "" {
		return ErrSubdomainPrefixRequired
	}

	return nil
}

// ParseDestination parses and validates a local destination URI.
// Only tcp and http schemes are supported.
func ParseDestination(raw string) (*url.URL, error) {
	dest, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid destination URI %q: %w", raw, err)
	}

	switch dest.Scheme {
	case SchemeTCP, SchemeHTTP:
		return dest, nil
	default:
		return nil, &UnsupportedSchemeError{Scheme: dest.Scheme}
	}
}

package wizard

import "errors"

var (
	errDestinationRequired = errors.New("destination is required")
	errDestinationInvalid  = errors.New("destination must be a valid URL with the selected scheme and a host")
	errSubdomainRequired   = errors.New("subdomain prefix is required for HTTP tunnels")
	errSubdomainInvalid    = errors.New("subdomain prefix must be 1-32 lowercase alphanumeric characters or hyphens")
)

// Package identity resolves a stable device identity for a provisioning run.
//
// The device id comes from explicit input or, failing that, from a hardware
// serial number probe. There is no silent fallback: a device that cannot be
// identified aborts the run, because the id becomes the routing key for the
// agent's tunnels and must never be empty or accidental.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// AbsenceMarker is the documented "not set" value for device name and group.
// Downstream config consumers treat the literal string "None" as absence,
// not the empty string.
const AbsenceMarker = "None"

// ErrUnavailable is returned when no explicit device id was given and the
// hardware probe could not produce a serial number.
var ErrUnavailable = errors.New("no device identity available: the hardware serial number could not be read; pass an explicit id with --device-id")

// Resolved is the device identity used for the rest of the run.
// It is created once and never mutated afterward.
type Resolved struct {
	DeviceID    string
	DeviceName  string
	DeviceGroup string
}

// HardwareProbe reads a device serial number from a platform-specific
// source. Implementations return an empty string when no serial exists.
type HardwareProbe interface {
	SerialNumber(ctx context.Context) (string, error)
}

// Resolve determines the device identity. An explicit id is used verbatim;
// otherwise the hardware probe is consulted. Name and group default to the
// absence marker when unset.
func Resolve(ctx context.Context, explicitID, explicitName, explicitGroup string, probe HardwareProbe) (Resolved, error) {
	id := explicitID
	if id == "" {
		serial, err := probe.SerialNumber(ctx)
		if err != nil {
			return Resolved{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		id = strings.TrimSpace(serial)
		if id == "" {
			return Resolved{}, ErrUnavailable
		}
	}

	name := explicitName
	if name == "" {
		name = AbsenceMarker
	}
	group := explicitGroup
	if group == "" {
		group = AbsenceMarker
	}

	return Resolved{DeviceID: id, DeviceName: name, DeviceGroup: group}, nil
}

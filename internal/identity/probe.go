package identity

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// Serial number sources, in probe order. The cpuinfo "Serial" line covers
// ARM boards (Raspberry Pi and similar); the device-tree node covers the
// rest of the embedded Linux landscape.
const (
	defaultCPUInfoPath    = "/proc/cpuinfo"
	defaultDeviceTreePath = "/sys/firmware/devicetree/base/serial-number"
)

// ProcProbe reads the hardware serial number from the kernel's procfs and
// sysfs surfaces. The zero paths default to the standard locations; tests
// point them at fixtures.
type ProcProbe struct {
	CPUInfoPath    string
	DeviceTreePath string
}

// NewProcProbe returns a probe reading the standard kernel locations.
func NewProcProbe() *ProcProbe {
	return &ProcProbe{
		CPUInfoPath:    defaultCPUInfoPath,
		DeviceTreePath: defaultDeviceTreePath,
	}
}

// SerialNumber returns the first serial number found, or an empty string if
// neither source yields one. Context cancellation is checked up front; the
// reads themselves are local file I/O.
func (p *ProcProbe) SerialNumber(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if serial := p.cpuinfoSerial(); serial != "" {
		return serial, nil
	}
	if serial := p.deviceTreeSerial(); serial != "" {
		return serial, nil
	}
	return "", fmt.Errorf("no serial number in %s or %s", p.CPUInfoPath, p.DeviceTreePath)
}

func (p *ProcProbe) cpuinfoSerial() string {
	f, err := os.Open(p.CPUInfoPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		if strings.TrimSpace(key) == "Serial" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func (p *ProcProbe) deviceTreeSerial() string {
	data, err := os.ReadFile(p.DeviceTreePath)
	if err != nil {
		return ""
	}
	// Device-tree string properties are NUL-terminated.
	return strings.TrimSpace(strings.Trim(string(data), "\x00"))
}

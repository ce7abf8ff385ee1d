// Package platform resolves the target CPU architecture into the artifact
// tag used by the agent distribution endpoint.
package platform

import (
	"context"
	"fmt"
	"strings"
)

// Tag selects which agent build to download. The set is closed: every
// resolution path ends in exactly one of these values.
//
// Note the naming asymmetry: the public flag vocabulary says "amd64", but
// the distribution store has always named that build "linux". The mapping is
// deliberate, documented behavior — renaming the store artifact would break
// every existing install, so the flag value is translated here instead.
type Tag string

const (
	TagLinux Tag = "linux" // amd64 builds, historical store name
	TagARM   Tag = "arm"
	TagARM64 Tag = "arm64"
)

// Flag values accepted by --platform.
const (
	FlagAMD64 = "amd64"
	FlagARM   = "arm"
	FlagARM64 = "arm64"
)

// ValidFlags lists the accepted --platform values in display order.
func ValidFlags() []string {
	return []string{FlagAMD64, FlagARM, FlagARM64}
}

// InvalidError reports a --platform value outside the closed set.
type InvalidError struct {
	Value string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid values: %s)", e.Value, strings.Join(ValidFlags(), ", "))
}

// ArchProbe reports the host machine architecture, e.g. "x86_64" or
// "aarch64". The real implementation shells out to uname.
type ArchProbe interface {
	Arch(ctx context.Context) (string, error)
}

// Resolve maps an explicit --platform value, or failing that the probed host
// architecture, to an artifact tag.
//
// Probed architectures outside the x86_64 and arm64 classes resolve to the
// 32-bit ARM build, the coarse default inherited from the original
// installer: the ARM build runs on every armv6+ board the agent supports.
func Resolve(ctx context.Context, explicit string, probe ArchProbe) (Tag, error) {
	if explicit != "" {
		switch explicit {
		case FlagAMD64:
			return TagLinux, nil
		case FlagARM:
			return TagARM, nil
		case FlagARM64:
			return TagARM64, nil
		default:
			return "", &InvalidError{Value: explicit}
		}
	}

	arch, err := probe.Arch(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect host architecture: %w", err)
	}

	switch strings.TrimSpace(arch) {
	case "x86_64", "amd64":
		return TagLinux, nil
	case "aarch64", "arm64":
		return TagARM64, nil
	default:
		return TagARM, nil
	}
}

package provisioning

import (
	"errors"
	"fmt"
)

// Kind classifies a provisioning failure. Every fatal error maps to exactly
// one kind, and every kind maps to a distinct process exit code, replacing
// the original installer's bare exits.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindIdentityUnavailable Kind = "identity-unavailable"
	KindInvalidPlatform     Kind = "invalid-platform"
	KindUnsupportedScheme   Kind = "unsupported-destination-scheme"
	KindDownloadFailed      Kind = "download-failed"
	KindInstallFailed       Kind = "install-failed"
	KindConfigWriteFailed   Kind = "config-write-failed"
	KindLoginFailed         Kind = "login-failed"
	KindServiceInstall      Kind = "service-install-failed"
	KindDaemonReload        Kind = "daemon-reload-failed"
	KindServiceStart        Kind = "service-start-failed"
	KindServiceEnable       Kind = "service-enable-failed"
	KindCancelled           Kind = "cancelled"
	KindLockBusy            Kind = "lock-busy"
)

// exitCodes assigns each kind its distinct exit code. Code 1 is reserved for
// unclassified errors.
var exitCodes = map[Kind]int{
	KindValidation:          2,
	KindIdentityUnavailable: 3,
	KindInvalidPlatform:     4,
	KindUnsupportedScheme:   5,
	KindDownloadFailed:      6,
	KindInstallFailed:       7,
	KindConfigWriteFailed:   8,
	KindLoginFailed:         9,
	KindServiceInstall:      10,
	KindDaemonReload:        11,
	KindServiceStart:        12,
	KindServiceEnable:       13,
	KindCancelled:           14,
	KindLockBusy:            15,
}

// ExitCode returns the process exit code for this kind.
func (k Kind) ExitCode() int {
	if code, ok := exitCodes[k]; ok {
		return code
	}
	return 1
}

// Failure is a typed provisioning error carrying the step that produced it.
type Failure struct {
	Kind Kind
	Step string
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("step %q failed (%s): %v", f.Step, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps err as a Failure of the given kind at the given step.
func NewFailure(kind Kind, step string, err error) *Failure {
	return &Failure{Kind: kind, Step: step, Err: err}
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind, true
	}
	return "", false
}

// ExitCode maps any error to a process exit code: 0 for nil, the kind's
// code for classified failures, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := KindOf(err); ok {
		return kind.ExitCode()
	}
	return 1
}

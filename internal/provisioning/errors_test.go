package provisioning

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allKinds() []Kind {
	return []Kind{
		KindValidation,
		KindIdentityUnavailable,
		KindInvalidPlatform,
		KindUnsupportedScheme,
		KindDownloadFailed,
		KindInstallFailed,
		KindConfigWriteFailed,
		KindLoginFailed,
		KindServiceInstall,
		KindDaemonReload,
		KindServiceStart,
		KindServiceEnable,
		KindCancelled,
		KindLockBusy,
	}
}

func TestExitCodes_DistinctAndNonZero(t *testing.T) {
	seen := make(map[int]Kind)
	for _, kind := range allKinds() {
		code := kind.ExitCode()
		assert.NotEqual(t, 0, code, "kind %s must not map to the success code", kind)
		assert.NotEqual(t, 1, code, "kind %s must not map to the unclassified code", kind)
		if prev, dup := seen[code]; dup {
			t.Errorf("kinds %s and %s share exit code %d", prev, kind, code)
		}
		seen[code] = kind
	}
}

func TestExitCode_ErrorMapping(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("unclassified")))

	failure := NewFailure(KindLoginFailed, "login", errors.New("boom"))
	assert.Equal(t, KindLoginFailed.ExitCode(), ExitCode(failure))

	// Classification survives wrapping.
	wrapped := fmt.Errorf("provision: %w", failure)
	assert.Equal(t, KindLoginFailed.ExitCode(), ExitCode(wrapped))
}

func TestKindOf(t *testing.T) {
	failure := NewFailure(KindDownloadFailed, "download-artifact", errors.New("boom"))

	kind, ok := KindOf(failure)
	require.True(t, ok)
	assert.Equal(t, KindDownloadFailed, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestFailure_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	failure := NewFailure(KindDownloadFailed, "download-artifact", cause)

	assert.Contains(t, failure.Error(), "download-artifact")
	assert.Contains(t, failure.Error(), "download-failed")
	assert.ErrorIs(t, failure, cause)
}

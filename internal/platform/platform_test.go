package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	arch  string
	err   error
	calls int
}

func (p *fakeProbe) Arch(_ context.Context) (string, error) {
	p.calls++
	return p.arch, p.err
}

func TestResolve_ExplicitValues(t *testing.T) {
	tests := []struct {
		explicit string
		want     Tag
	}{
		{"amd64", TagLinux}, // historical store naming, not a bug
		{"arm", TagARM},
		{"arm64", TagARM64},
	}

	for _, tt := range tests {
		t.Run(tt.explicit, func(t *testing.T) {
			probe := &fakeProbe{arch: "x86_64"}
			tag, err := Resolve(context.Background(), tt.explicit, probe)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
			assert.Zero(t, probe.calls, "probe must not run when --platform is explicit")
		})
	}
}

func TestResolve_InvalidExplicitValue(t *testing.T) {
	_, err := Resolve(context.Background(), "mips", &fakeProbe{})
	require.Error(t, err)

	var invalidErr *InvalidError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "mips", invalidErr.Value)
	assert.Contains(t, err.Error(), "amd64, arm, arm64")
}

func TestResolve_ProbedArchitectures(t *testing.T) {
	tests := []struct {
		arch string
		want Tag
	}{
		{"x86_64", TagLinux},
		{"amd64", TagLinux},
		{"aarch64", TagARM64},
		{"arm64", TagARM64},
		{"armv7l", TagARM},
		{"armv6l", TagARM},
		{"riscv64", TagARM}, // coarse default for anything unrecognized
		{"x86_64\n", TagLinux},
	}

	for _, tt := range tests {
		t.Run(tt.arch, func(t *testing.T) {
			tag, err := Resolve(context.Background(), "", &fakeProbe{arch: tt.arch})
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
		})
	}
}

// Explicit "amd64" and a probed x86_64 host must land on the same artifact.
func TestResolve_ExplicitAndProbedAMD64AreEquivalent(t *testing.T) {
	explicit, err := Resolve(context.Background(), "amd64", &fakeProbe{})
	require.NoError(t, err)

	probed, err := Resolve(context.Background(), "", &fakeProbe{arch: "x86_64"})
	require.NoError(t, err)

	assert.Equal(t, explicit, probed)
}

func TestResolve_ProbeFailure(t *testing.T) {
	_, err := Resolve(context.Background(), "", &fakeProbe{err: errors.New("uname missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to detect host architecture")
}

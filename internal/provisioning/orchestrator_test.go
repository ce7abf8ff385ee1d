package provisioning

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgelink/edgectl/internal/artifact"
	"github.com/edgelink/edgectl/internal/config"
	"github.com/edgelink/edgectl/internal/util/retry"
)

type fakeHardwareProbe struct {
	serial string
	err    error
	calls  int
}

func (p *fakeHardwareProbe) SerialNumber(_ context.Context) (string, error) {
	p.calls++
	return p.serial, p.err
}

type fakeArchProbe struct {
	arch  string
	err   error
	calls int
}

func (p *fakeArchProbe) Arch(_ context.Context) (string, error) {
	p.calls++
	return p.arch, p.err
}

type fakeFetcher struct {
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte("binary"), 0644)
}

type fakeMover struct {
	err error
}

func (m *fakeMover) Move(_ context.Context, src, dst string) error {
	if m.err != nil {
		return m.err
	}
	return os.Rename(src, dst)
}

type recordingRunner struct {
	commands [][]string
	failOn   string
	failErr  error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.commands = append(r.commands, append([]string{name}, args...))
	key := name
	if len(args) > 0 {
		key += " " + args[0]
	}
	if r.failOn != "" && key == r.failOn {
		return "", r.failErr
	}
	return "", nil
}

type testEnv struct {
	hardware   *fakeHardwareProbe
	arch       *fakeArchProbe
	fetcher    *fakeFetcher
	mover      *fakeMover
	runner     *recordingRunner
	configPath string
	installDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		hardware:   &fakeHardwareProbe{serial: "hw-serial"},
		arch:       &fakeArchProbe{arch: "x86_64"},
		fetcher:    &fakeFetcher{},
		mover:      &fakeMover{},
		runner:     &recordingRunner{},
		configPath: filepath.Join(t.TempDir(), ".edgelink", "config.json"),
		installDir: t.TempDir(),
	}
}

func (e *testEnv) orchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	installer := artifact.New(e.fetcher, e.mover,
		artifact.WithStagingDir(t.TempDir()),
		artifact.WithInstallDir(e.installDir),
	)
	return NewOrchestrator(Deps{
		HardwareProbe: e.hardware,
		ArchProbe:     e.arch,
		Installer:     installer,
		Runner:        e.runner,
		ConfigPath:    e.configPath,
		LoginRetry:    []retry.Option{retry.WithMaxRetries(0)},
	})
}

// Scenario A: token and device id only, no destination.
func TestRun_DefaultTunnelEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	req := &config.Request{AuthToken: "tok1", DeviceID: "dev1"}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.True(t, report.Succeeded(), "run failed: %v", report.Err())
	assert.Equal(t, "service-enable", report.LastCompleted)
	assert.NotEmpty(t, report.RunID)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"authtoken": "tok1",
		"tunnel_enabled": true,
		"tunnels": [{
			"destination": "tcp://127.0.0.1:22",
			"protocol": "tcp",
			"iot_device_id": "dev1",
			"iot_device_name": "None",
			"iot_device_group": "None"
		}]
	}`, string(data))

	// Hardware probe is skipped when the id is explicit.
	assert.Zero(t, env.hardware.calls)

	// Installed binary drives login and service registration.
	installedPath := filepath.Join(env.installDir, artifact.BinaryName)
	assert.FileExists(t, installedPath)
	require.NotEmpty(t, env.runner.commands)
	assert.Equal(t, []string{installedPath, "login", "--token", "tok1"}, env.runner.commands[0])
}

// Scenario B: http destination with subdomain prefix.
func TestRun_HTTPDestinationEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	req := &config.Request{
		AuthToken:        "tok1",
		DeviceID:         "dev1",
		LocalDestination: "http://localhost:8080",
		SubdomainPrefix:  "pre",
	}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.True(t, report.Succeeded(), "run failed: %v", report.Err())

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)

	var cfg struct {
		Tunnels []map[string]any `json:"tunnels"`
	}
	require.NoError(t, json.Unmarshal(data, &cfg))
	require.Len(t, cfg.Tunnels, 1)
	assert.Equal(t, "http", cfg.Tunnels[0]["protocol"])
	assert.Equal(t, "pre-dev1", cfg.Tunnels[0]["subdomain"])
	assert.NotContains(t, cfg.Tunnels[0], "iot_device_id")
}

// Scenario C: missing auth token fails before any resolver or side effect.
func TestRun_MissingAuthTokenFailsBeforeAnySideEffect(t *testing.T) {
	env := newTestEnv(t)
	req := &config.Request{DeviceID: "dev1"}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindValidation, kind)

	assert.Zero(t, env.hardware.calls, "identity resolver must not be invoked")
	assert.Zero(t, env.arch.calls, "platform resolver must not be invoked")
	assert.Zero(t, env.fetcher.calls, "no network operation may be attempted")
	assert.Empty(t, env.runner.commands, "no subprocess may be invoked")
	assert.NoFileExists(t, env.configPath)
}

func TestRun_HTTPDestinationWithoutPrefixIsValidation(t *testing.T) {
	env := newTestEnv(t)
	req := &config.Request{
		AuthToken:        "tok1",
		DeviceID:         "dev1",
		LocalDestination: "http://localhost:8080",
	}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())
	assert.ErrorIs(t, report.Err(), config.ErrSubdomainPrefixRequired)
	assert.Zero(t, env.fetcher.calls)
}

func TestRun_UnsupportedSchemeGetsOwnKind(t *testing.T) {
	env := newTestEnv(t)
	req := &config.Request{
		AuthToken:        "tok1",
		DeviceID:         "dev1",
		LocalDestination: "udp://localhost:53",
	}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindUnsupportedScheme, kind)
}

func TestRun_IdentityProbeFailureIsFatal(t *testing.T) {
	env := newTestEnv(t)
	env.hardware.serial = "   "
	req := &config.Request{AuthToken: "tok1"}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindIdentityUnavailable, kind)
	assert.Zero(t, env.fetcher.calls, "no download after identity failure")
	assert.Equal(t, "acquire-lock", report.LastCompleted)
}

func TestRun_DownloadFailureReportsLastCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.fetcher.err = errors.New("connection refused")
	req := &config.Request{AuthToken: "tok1", DeviceID: "dev1"}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindDownloadFailed, kind)
	assert.Equal(t, "synthesize-config", report.LastCompleted)
	assert.Empty(t, env.runner.commands, "no service step after a failed download")
}

func TestRun_ServiceStartFailureHaltsBeforeEnable(t *testing.T) {
	env := newTestEnv(t)
	env.runner.failOn = "systemctl start"
	env.runner.failErr = errors.New("unit failed")
	req := &config.Request{AuthToken: "tok1", DeviceID: "dev1"}

	report := env.orchestrator(t).Run(context.Background(), req)
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindServiceStart, kind)
	assert.Equal(t, "daemon-reload", report.LastCompleted)

	for _, cmd := range env.runner.commands {
		assert.NotEqual(t, []string{"systemctl", "enable", "edgelink-agent"}, cmd,
			"enable must not run after start fails")
	}
}

func TestRun_ConcurrentRunBlockedByLock(t *testing.T) {
	env := newTestEnv(t)

	release, err := AcquireLock(env.configPath)
	require.NoError(t, err)
	t.Cleanup(release)

	report := env.orchestrator(t).Run(context.Background(), &config.Request{AuthToken: "tok1", DeviceID: "dev1"})
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindLockBusy, kind)
	assert.Zero(t, env.fetcher.calls)
}

func TestRun_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := env.orchestrator(t).Run(ctx, &config.Request{AuthToken: "tok1", DeviceID: "dev1"})
	require.False(t, report.Succeeded())

	kind, ok := KindOf(report.Err())
	require.True(t, ok)
	assert.Equal(t, KindCancelled, kind)
}

func TestRun_ProbedIdentityFlowsIntoConfig(t *testing.T) {
	env := newTestEnv(t)
	env.hardware.serial = "10000000abcdef01"

	report := env.orchestrator(t).Run(context.Background(), &config.Request{AuthToken: "tok1"})
	require.True(t, report.Succeeded(), "run failed: %v", report.Err())
	assert.Equal(t, 1, env.hardware.calls)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"iot_device_id": "10000000abcdef01"`)
}

package artifact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgelink/edgectl/internal/platform"
)

type fakeFetcher struct {
	err   error
	calls int
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) error {
	f.calls++
	f.urls = append(f.urls, url)
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dest, []byte("binary"), 0644)
}

type fakeMover struct {
	err   error
	moves [][2]string
}

func (m *fakeMover) Move(_ context.Context, src, dst string) error {
	if m.err != nil {
		return m.err
	}
	m.moves = append(m.moves, [2]string{src, dst})
	return os.Rename(src, dst)
}

func TestArtifactURL_PerPlatformTag(t *testing.T) {
	installer := New(&fakeFetcher{}, &fakeMover{})

	assert.Equal(t, "https://downloads.edgelink.io/agent/edgelink-agent-linux", installer.ArtifactURL(platform.TagLinux))
	assert.Equal(t, "https://downloads.edgelink.io/agent/edgelink-agent-arm", installer.ArtifactURL(platform.TagARM))
	assert.Equal(t, "https://downloads.edgelink.io/agent/edgelink-agent-arm64", installer.ArtifactURL(platform.TagARM64))
}

func TestDownload_StagesArtifact(t *testing.T) {
	staging := t.TempDir()
	fetcher := &fakeFetcher{}
	installer := New(fetcher, &fakeMover{}, WithStagingDir(staging))

	staged, err := installer.Download(context.Background(), platform.TagARM64)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(staging, "edgelink-agent-arm64"), staged)
	assert.FileExists(t, staged)
	require.Len(t, fetcher.urls, 1)
	assert.Equal(t, installer.ArtifactURL(platform.TagARM64), fetcher.urls[0])
}

func TestDownload_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	installer := New(fetcher, &fakeMover{}, WithStagingDir(t.TempDir()))

	_, err := installer.Download(context.Background(), platform.TagLinux)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to download")
}

func TestInstall_ChmodsThenMoves(t *testing.T) {
	staging := t.TempDir()
	installDir := t.TempDir()
	mover := &fakeMover{}
	installer := New(&fakeFetcher{}, mover, WithStagingDir(staging), WithInstallDir(installDir))

	staged, err := installer.Download(context.Background(), platform.TagARM)
	require.NoError(t, err)

	installed, err := installer.Install(context.Background(), staged)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(installDir, BinaryName), installed)
	info, err := os.Stat(installed)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), "artifact must be executable before the move")
	require.Len(t, mover.moves, 1)
}

func TestInstall_MissingStagedArtifact(t *testing.T) {
	installer := New(&fakeFetcher{}, &fakeMover{})

	_, err := installer.Install(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staged artifact missing")
}

func TestInstall_MoveFailure(t *testing.T) {
	staging := t.TempDir()
	installer := New(&fakeFetcher{}, &fakeMover{err: errors.New("permission denied")}, WithStagingDir(staging))

	staged, err := installer.Download(context.Background(), platform.TagLinux)
	require.NoError(t, err)

	_, err = installer.Install(context.Background(), staged)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to install artifact")
}

func TestHTTPFetcher_DownloadsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("agent-bytes"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "agent")
	err := NewHTTPFetcher().Fetch(context.Background(), server.URL, dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "agent-bytes", string(data))
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("agent-bytes"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher()
	fetcher.client.RetryWaitMin = 0
	fetcher.client.RetryWaitMax = 0

	dest := filepath.Join(t.TempDir(), "agent")
	err := fetcher.Fetch(context.Background(), server.URL, dest)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, attempts.Load(), int32(3))
}

func TestHTTPFetcher_NotFoundFailsFast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "agent")
	err := NewHTTPFetcher().Fetch(context.Background(), server.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.NoFileExists(t, dest)
}

func TestSudoMover_CommandShape(t *testing.T) {
	runner := &recordingRunner{}
	mover := NewSudoMover(runner)

	require.NoError(t, mover.Move(context.Background(), "/tmp/staged", "/usr/local/bin/edgelink-agent"))
	require.Len(t, runner.commands, 1)
	assert.Equal(t, []string{"sudo", "mv", "/tmp/staged", "/usr/local/bin/edgelink-agent"}, runner.commands[0])
}

type recordingRunner struct {
	commands [][]string
	err      error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.commands = append(r.commands, append([]string{name}, args...))
	return "", r.err
}

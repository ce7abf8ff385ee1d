// Package artifact acquires the prebuilt agent binary for a resolved
// platform and places it at the well-known executable location.
//
// Download and privileged move are injected capabilities so the install
// sequence can be tested without a live network or root privileges.
package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edgelink/edgectl/internal/platform"
)

// Distribution layout. The store names each build edgelink-agent-<tag>.
const (
	DefaultBaseURL    = "https://downloads.edgelink.io/agent"
	DefaultInstallDir = "/usr/local/bin"

	// BinaryName is the installed executable name, referenced by the
	// service unit and the login/service CLI steps.
	BinaryName = "edgelink-agent"
)

// Fetcher downloads a URL into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Mover moves the staged binary into the system executable directory.
// Implementations need elevated privilege.
type Mover interface {
	Move(ctx context.Context, src, dst string) error
}

// Installer stages and installs the agent binary.
type Installer struct {
	fetcher    Fetcher
	mover      Mover
	baseURL    string
	stagingDir string
	installDir string
}

// Option configures an Installer.
type Option func(*Installer)

// WithBaseURL overrides the distribution endpoint.
func WithBaseURL(url string) Option {
	return func(i *Installer) { i.baseURL = url }
}

// WithStagingDir overrides the staging directory (default: os.TempDir).
func WithStagingDir(dir string) Option {
	return func(i *Installer) { i.stagingDir = dir }
}

// WithInstallDir overrides the install directory.
func WithInstallDir(dir string) Option {
	return func(i *Installer) { i.installDir = dir }
}

// New returns an Installer using the given capabilities.
func New(fetcher Fetcher, mover Mover, opts ...Option) *Installer {
	i := &Installer{
		fetcher:    fetcher,
		mover:      mover,
		baseURL:    DefaultBaseURL,
		stagingDir: os.TempDir(),
		installDir: DefaultInstallDir,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ArtifactURL returns the download URL for a platform tag.
func (i *Installer) ArtifactURL(tag platform.Tag) string {
	return fmt.Sprintf("%s/%s-%s", i.baseURL, BinaryName, tag)
}

// Download fetches the artifact for the tag into the staging directory and
// returns the staged path.
func (i *Installer) Download(ctx context.Context, tag platform.Tag) (string, error) {
	staged := filepath.Join(i.stagingDir, fmt.Sprintf("%s-%s", BinaryName, tag))
	url := i.ArtifactURL(tag)

	if err := i.fetcher.Fetch(ctx, url, staged); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}

	return staged, nil
}

// Install marks the staged artifact executable and moves it into the install
// directory, returning the final path.
func (i *Installer) Install(ctx context.Context, stagedPath string) (string, error) {
	if _, err := os.Stat(stagedPath); err != nil {
		return "", fmt.Errorf("staged artifact missing: %w", err)
	}

	if err := os.Chmod(stagedPath, 0755); err != nil {
		return "", fmt.Errorf("failed to mark artifact executable: %w", err)
	}

	installed := filepath.Join(i.installDir, BinaryName)
	if err := i.mover.Move(ctx, stagedPath, installed); err != nil {
		return "", fmt.Errorf("failed to install artifact to %s: %w", installed, err)
	}

	return installed, nil
}

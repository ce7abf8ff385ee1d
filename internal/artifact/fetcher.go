package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPFetcher downloads artifacts over HTTP with bounded retry and
// exponential backoff. Transient network failures and 5xx responses are
// retried; anything else fails fast.
type HTTPFetcher struct {
	client *retryablehttp.Client
}

// NewHTTPFetcher returns a fetcher with retry defaults suited to a device
// whose network may still be settling at provisioning time.
func NewHTTPFetcher() *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 4
	client.Logger = nil
	return &HTTPFetcher{client: client}
}

// Fetch downloads url into dest. The file is written through a temporary
// name and renamed so a partial download never shows up at dest.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: unexpected status %s", resp.Status)
	}

	// Stage next to dest so the final rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(dest), "edgelink-download-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to place staged artifact: %w", err)
	}
	return nil
}

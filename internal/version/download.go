package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// Downloader saves release assets to disk.
type Downloader struct {
	HTTPClient *http.Client
}

// NewDownloader creates a downloader using the default HTTP client.
func NewDownloader() *Downloader {
	return &Downloader{HTTPClient: http.DefaultClient}
}

// Download fetches url into destDir, naming the file after the last URL
// path element. A partial file is removed on failure.
func (d *Downloader) Download(ctx context.Context, url, destDir string) (string, error) {
	name := path.Base(url)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("cannot derive file name from %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(destDir, name)
	file, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return destPath, nil
}

package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// FSProber looks images up in a local photos directory
type FSProber struct {
	fsys fs.FS
}

func NewFSProber(root string) *FSProber {
	return &FSProber{fsys: os.DirFS(root)}
}

// NewFSProberFS is used by tests with in-memory trees
func NewFSProberFS(fsys fs.FS) *FSProber {
	return &FSProber{fsys: fsys}
}

func (p *FSProber) Probe(ctx context.Context, relPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if !fs.ValidPath(relPath) {
		return false, nil
	}

	info, err := fs.Stat(p.fsys, relPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not stat %s: %w", relPath, err)
	}

	return !info.IsDir(), nil
}

// HTTPProber checks images served from another host (CDN, bucket).
// Only 404 and 410 count as a missing image; transport errors and other
// statuses are reported as errors since the image may still exist.
type HTTPProber struct {
	baseURL *url.URL
	client  http.Client
}

func NewHTTPProber(baseURL string, timeout time.Duration) (*HTTPProber, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse image base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("image base url must be http or https, got %q", baseURL)
	}

	return &HTTPProber{
		baseURL: u,
		client: http.Client{
			Timeout: timeout,
		},
	}, nil
}

// URL returns the absolute url of a path relative to the photos root
func (p *HTTPProber) URL(relPath string) string {
	u := *p.baseURL
	u.Path = path.Join("/", strings.TrimSuffix(u.Path, "/"), relPath)
	return u.String()
}

func (p *HTTPProber) Probe(ctx context.Context, relPath string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL(relPath), http.NoBody)
	if err != nil {
		return false, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("could not probe %s: %w", relPath, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, relPath)
	}
}

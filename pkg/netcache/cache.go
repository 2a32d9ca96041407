package netcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/neurodesk/smartscript/pkg/smartscript"
)

// Cache keeps fetched documents on disk and revalidates them with
// ETag/Last-Modified on the next request.
type Cache struct {
	Dir    string
	Client *http.Client

	// Attempts is the number of full fetches tried before giving up.
	Attempts int
	// Backoff is the delay before the first retry; it doubles every attempt.
	Backoff time.Duration
}

// New returns a new Cache with a reasonable default HTTP client.
func New(dir string) *Cache {
	return &Cache{
		Dir:      dir,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Backoff:  time.Second,
	}
}

type meta struct {
	URL          string `json:"url"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	DataFile     string `json:"data_file"`
}

// Get fetches url into the cache and returns the local path and whether
// the cached copy was reused.
func (c *Cache) Get(ctx context.Context, url string) (string, bool, error) {
	key := hash(url)
	mpath := filepath.Join(c.Dir, key+".json")

	if m, ok := c.readMeta(mpath, url); ok {
		path, fromCache, err := c.revalidate(ctx, m, mpath)
		if err == nil {
			return path, fromCache, nil
		}
		// Serve the stale copy when the origin is unreachable.
		slog.Debug("revalidation failed, using cached copy", "url", url, "error", err)
		return filepath.Join(c.Dir, m.DataFile), true, nil
	}

	attempts := max(c.Attempts, 1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", false, ctx.Err()
			case <-time.After(c.Backoff << (attempt - 1)):
			}
		}
		path, err := c.fetch(ctx, url, key, mpath, nil)
		if err == nil {
			return path, false, nil
		}
		lastErr = err
		slog.Debug("fetch failed", "url", url, "attempt", attempt+1, "error", err)
	}
	return "", false, fmt.Errorf("fetching %s: %w", url, lastErr)
}

func (c *Cache) readMeta(mpath, url string) (meta, bool) {
	var m meta
	b, err := os.ReadFile(mpath)
	if err != nil {
		return m, false
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, false
	}
	if m.URL != url || m.DataFile == "" || !fileExists(filepath.Join(c.Dir, m.DataFile)) {
		return m, false
	}
	return m, true
}

func (c *Cache) revalidate(ctx context.Context, m meta, mpath string) (string, bool, error) {
	var notModified bool
	path, err := c.fetch(ctx, m.URL, hash(m.URL), mpath, func(req *http.Request, resp *http.Response) bool {
		if resp == nil {
			if m.ETag != "" {
				req.Header.Set("If-None-Match", m.ETag)
			}
			if m.LastModified != "" {
				req.Header.Set("If-Modified-Since", m.LastModified)
			}
			return false
		}
		notModified = resp.StatusCode == http.StatusNotModified
		return notModified
	})
	if err != nil {
		return "", false, err
	}
	if notModified {
		return filepath.Join(c.Dir, m.DataFile), true, nil
	}
	return path, false, nil
}

// fetch performs one GET. hook is called with a nil response to decorate the
// request and again with the response; returning true stops before the body
// is stored.
func (c *Cache) fetch(ctx context.Context, url, key, mpath string, hook func(*http.Request, *http.Response) bool) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if hook != nil {
		hook(req, nil)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if hook != nil && hook(req, resp) {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	dataFile := key + ".data"
	path := filepath.Join(c.Dir, dataFile)
	if err := streamToFile(resp.Body, path, 0o644); err != nil {
		return "", err
	}
	nm := meta{
		URL:          url,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
		DataFile:     dataFile,
	}
	if err := writeMeta(mpath, nm); err != nil {
		return "", err
	}
	return path, nil
}

// Loader returns a smartscript.Loader that resolves document names as URLs
// through the cache.
func (c *Cache) Loader(ctx context.Context) smartscript.Loader {
	return loader{ctx: ctx, cache: c}
}

type loader struct {
	ctx   context.Context
	cache *Cache
}

func (l loader) Load(name string) (string, error) {
	path, fromCache, err := l.cache.Get(l.ctx, name)
	if err != nil {
		return "", err
	}
	slog.Debug("loaded document", "url", name, "cached", fromCache)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading cached document: %w", err)
	}
	return string(b), nil
}

// IsURL reports whether name should be loaded over HTTP.
func IsURL(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

func streamToFile(r io.Reader, dst string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func writeMeta(path string, m meta) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

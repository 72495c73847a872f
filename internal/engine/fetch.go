package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// maxAssetSize caps how many bytes a single asset may occupy.
const maxAssetSize = 32 << 20

// Fetcher retrieves the raw bytes behind an asset URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, uri string) ([]byte, error)

// Fetch calls f(ctx, uri).
func (f FetcherFunc) Fetch(ctx context.Context, uri string) ([]byte, error) {
	return f(ctx, uri)
}

// Cache stores fetched remote assets so later boots can skip the network.
type Cache interface {
	GetAsset(ctx context.Context, uri string) ([]byte, bool, error)
	PutAsset(ctx context.Context, uri, contentType string, data []byte) error
	DeleteAsset(ctx context.Context, uri string) error
}

// Invalidator is implemented by fetchers that keep a copy of what they
// fetched. Invalidate drops the copy for uri so the next Fetch goes back to
// the source.
type Invalidator interface {
	Invalidate(ctx context.Context, uri string) error
}

// HTTPFetcher downloads http(s) assets, consulting an optional cache first.
type HTTPFetcher struct {
	Client *http.Client
	Cache  Cache
	Logger *log.Logger
}

// NewHTTPFetcher creates an HTTP fetcher with a 30 second client timeout.
// cache may be nil.
func NewHTTPFetcher(cache Cache, logger *log.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
		Cache:  cache,
		Logger: orDiscard(logger),
	}
}

// Fetch returns the cached bytes for uri, or downloads and caches them.
// Cache failures are logged and otherwise ignored.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	logger := orDiscard(f.Logger)

	if f.Cache != nil {
		data, ok, err := f.Cache.GetAsset(ctx, uri)
		if err != nil {
			logger.Warn("asset cache read failed", "uri", uri, "error", err)
		} else if ok {
			logger.Debug("asset cache hit", "uri", uri, "bytes", len(data))
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("asset exceeds %d bytes", maxAssetSize)
	}
	logger.Debug("asset downloaded", "uri", uri, "bytes", len(data))

	if f.Cache != nil {
		if err := f.Cache.PutAsset(ctx, uri, resp.Header.Get("Content-Type"), data); err != nil {
			logger.Warn("asset cache write failed", "uri", uri, "error", err)
		}
	}
	return data, nil
}

// Invalidate removes uri from the cache.
func (f *HTTPFetcher) Invalidate(ctx context.Context, uri string) error {
	if f.Cache == nil {
		return nil
	}
	return f.Cache.DeleteAsset(ctx, uri)
}

// FileFetcher reads file:// URIs and bare paths from disk. Relative paths
// resolve against Root when it is set.
type FileFetcher struct {
	Root string
}

// Fetch reads the file named by uri.
func (f FileFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := uri
	if strings.HasPrefix(uri, "file://") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parse uri: %w", err)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && f.Root != "" {
		path = filepath.Join(f.Root, path)
	}
	return os.ReadFile(path)
}

// SchemeFetcher routes http(s) URIs to HTTP and everything else to File.
type SchemeFetcher struct {
	HTTP Fetcher
	File Fetcher
}

// NewFetcher returns the default fetcher: cached HTTP for remote URIs and the
// local filesystem for the rest.
func NewFetcher(cache Cache, logger *log.Logger) *SchemeFetcher {
	return &SchemeFetcher{
		HTTP: NewHTTPFetcher(cache, logger),
		File: FileFetcher{},
	}
}

// Fetch dispatches on the URI scheme.
func (f *SchemeFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if IsRemote(uri) {
		return f.HTTP.Fetch(ctx, uri)
	}
	return f.File.Fetch(ctx, uri)
}

// Invalidate forwards to the HTTP fetcher for remote URIs.
func (f *SchemeFetcher) Invalidate(ctx context.Context, uri string) error {
	if !IsRemote(uri) {
		return nil
	}
	if inv, ok := f.HTTP.(Invalidator); ok {
		return inv.Invalidate(ctx, uri)
	}
	return nil
}

// IsRemote reports whether uri is fetched over HTTP.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// orDiscard returns logger, or a logger that drops everything when nil.
func orDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}

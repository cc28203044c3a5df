// Package fetch - cached.go keeps downloaded documents on disk so reruns skip the network.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDownloadInterval spaces out consecutive downloads from the same host.
const DefaultDownloadInterval = time.Second

// FileCache stores documents under a directory keyed by file name. A file that already
// exists is never downloaded again.
type FileCache struct {
	dir     string
	options *Options
	limiter *rate.Limiter
}

// FileCacheConfig holds configuration for the file cache.
type FileCacheConfig struct {
	Dir      string
	Interval time.Duration // Minimum time between downloads; 0 disables throttling
	Options  *Options
}

// CachedDocument describes a document resolved through the cache.
type CachedDocument struct {
	Path      string
	FromCache bool
	Size      int64
}

// NewFileCache creates a file cache rooted at config.Dir.
func NewFileCache(config *FileCacheConfig) *FileCache {
	if config == nil {
		config = &FileCacheConfig{Dir: "pdfs", Interval: DefaultDownloadInterval}
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}

	limit := rate.Inf
	if config.Interval > 0 {
		limit = rate.Every(config.Interval)
	}
	return &FileCache{
		dir:     config.Dir,
		options: config.Options,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string {
	return c.dir
}

// Path returns where a document with the given name is stored.
func (c *FileCache) Path(name string) string {
	return filepath.Join(c.dir, filepath.Base(name))
}

// Has reports whether a document with the given name is cached.
func (c *FileCache) Has(name string) bool {
	info, err := os.Stat(c.Path(name))
	return err == nil && !info.IsDir()
}

// Fetch returns the local path for name, downloading it from urlStr first when it is not
// cached. Any existing file counts as cached; Invalidate forces a new download.
// Downloads that do not look like PDF documents are rejected and not stored.
func (c *FileCache) Fetch(ctx context.Context, urlStr, name string) (*CachedDocument, error) {
	path := c.Path(name)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return &CachedDocument{Path: path, FromCache: true, Size: info.Size()}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{URL: urlStr, Message: "download cancelled", Cause: err}
	}

	result, err := URL(ctx, urlStr, c.options)
	if err != nil {
		return nil, err
	}
	if !IsPDF(result.Body) {
		return nil, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("response is not a PDF document (content type %q)", result.ContentType),
		}
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", c.dir, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(result.Body)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to store %s: %w", path, err)
	}

	return &CachedDocument{Path: path, FromCache: false, Size: int64(len(result.Body))}, nil
}

// Invalidate removes a cached document, forcing a download on the next Fetch.
func (c *FileCache) Invalidate(name string) error {
	err := os.Remove(c.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

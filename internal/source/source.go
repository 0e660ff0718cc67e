// Package source resolves manifest asset paths against the asset root and
// loads still frames from them for previews.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrOutsideRoot is returned for asset paths that escape the asset root.
var ErrOutsideRoot = errors.New("asset path escapes asset root")

// Source yields still frames of one asset.
type Source interface {
	// Frame returns the picture shown at the given offset into the asset.
	// Stills ignore the offset.
	Frame(ctx context.Context, at time.Duration) (image.Image, error)
	Path() string
	Close() error
}

// Resolver maps manifest paths to files under Root and caches opened sources.
type Resolver struct {
	Root   string
	FFmpeg string

	mu      sync.Mutex
	sources map[string]Source
}

// NewResolver creates a resolver for assets under root.
func NewResolver(root, ffmpeg string) *Resolver {
	return &Resolver{Root: root, FFmpeg: ffmpeg, sources: make(map[string]Source)}
}

// Resolve joins asset onto the root. Absolute paths are kept as they are;
// relative ones must stay inside the root.
func (r *Resolver) Resolve(asset string) (string, error) {
	if asset == "" {
		return "", errors.New("empty asset path")
	}
	clean := filepath.FromSlash(strings.ReplaceAll(asset, "\\", "/"))
	if filepath.IsAbs(clean) {
		return filepath.Clean(clean), nil
	}

	joined := filepath.Join(r.Root, clean)
	rel, err := filepath.Rel(r.Root, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", asset, ErrOutsideRoot)
	}
	return joined, nil
}

// Exists reports whether the asset resolves to a regular file.
func (r *Resolver) Exists(asset string) bool {
	p, err := r.Resolve(asset)
	if err != nil {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

// Open returns a cached source for asset, creating it on first use.
func (r *Resolver) Open(asset string, isImage bool) (Source, error) {
	p, err := r.Resolve(asset)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sources == nil {
		r.sources = make(map[string]Source)
	}
	if src, ok := r.sources[p]; ok {
		return src, nil
	}

	var src Source
	if isImage {
		src = NewImageSource(p)
	} else {
		src = NewVideoSource(p, r.FFmpeg)
	}
	r.sources[p] = src
	return src, nil
}

// Close releases every cached source.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for p, src := range r.sources {
		if err := src.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.sources, p)
	}
	return errors.Join(errs...)
}

// Package spritecache is a key-addressed byte store backed by a directory,
// filled on demand by a Fetcher.
package spritecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/paths"
)

// Store returns the bytes for key, fetching them if needed.
type Store interface {
	GetOrFetch(ctx context.Context, key string) ([]byte, error)
}

// Fetcher retrieves the bytes for key from wherever they originally live.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, key string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, key string) ([]byte, error) {
	return f(ctx, key)
}

// Dir stores one file per key in Root.
type Dir struct {
	Root    string
	Fetcher Fetcher
}

// NewDir returns a store in root which fetches misses with f.
func NewDir(root string, f Fetcher) *Dir {
	return &Dir{Root: root, Fetcher: f}
}

// Path returns where the entry for key is stored: the SHA-256 of the key,
// keeping the key's extension so entries remain easy to open by hand.
func (d *Dir) Path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	if ext := keyExt(key); ext != "" {
		name += ext
	}
	return filepath.Join(d.Root, name)
}

func keyExt(key string) string {
	k := key
	if i := strings.IndexAny(k, "?#"); i >= 0 {
		k = k[:i]
	}
	ext := path.Ext(k)
	if len(ext) > 8 || strings.ContainsAny(ext, "/;,") {
		return ""
	}
	return strings.ToLower(ext)
}

// GetOrFetch returns the stored bytes for key. On a miss, the bytes are
// fetched and stored before being returned.
func (d *Dir) GetOrFetch(ctx context.Context, key string) ([]byte, error) {
	p := d.Path(key)
	b, err := os.ReadFile(p)
	if err == nil {
		glog.V(1).Infof("spritecache: hit for %q", key)
		return b, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading cache entry for %q", key)
	}
	if d.Fetcher == nil {
		return nil, errors.Errorf("%q not cached and no fetcher configured", key)
	}

	glog.Infof("spritecache: fetching %q", key)
	b, err = d.Fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %q", key)
	}
	err = paths.WriteAtomic(p, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "caching %q", key)
	}
	return b, nil
}

// Forget removes the entry for key, if any.
func (d *Dir) Forget(key string) error {
	if err := os.Remove(d.Path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "forgetting %q", key)
	}
	return nil
}

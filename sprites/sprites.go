// Package sprites deals with community sprite sheets: the metadata list
// naming them and the small previews published alongside.
package sprites

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/spritecache"
)

// Sprite is one entry in the metadata list.
type Sprite struct {
	Name    string `json:"name"`
	Author  string `json:"author,omitempty"`
	Preview string `json:"preview"`
}

// ParseMetadata parses a JSON array of sprites. Entries without a preview
// are dropped.
func ParseMetadata(b []byte) ([]Sprite, error) {
	var list []Sprite
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, errors.Wrap(err, "parsing sprite metadata")
	}
	out := list[:0]
	for _, s := range list {
		if s.Preview == "" {
			glog.V(1).Infof("sprite %q has no preview; skipping", s.Name)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// Metadata fetches and parses the sprite list at url through store. A
// cached list which fails to parse is forgotten, so the next call
// refetches it.
func Metadata(ctx context.Context, store spritecache.Store, url string) ([]Sprite, error) {
	b, err := store.GetOrFetch(ctx, url)
	if err != nil {
		return nil, err
	}
	list, err := ParseMetadata(b)
	if err != nil {
		if f, ok := store.(interface{ Forget(string) error }); ok {
			if ferr := f.Forget(url); ferr != nil {
				glog.Warningf("could not forget bad metadata: %v", ferr)
			}
		}
		return nil, err
	}
	return list, nil
}

// Filter returns the sprites whose name contains substr, ignoring case.
// An empty substr matches everything.
func Filter(list []Sprite, substr string) []Sprite {
	substr = strings.ToLower(substr)
	var out []Sprite
	for _, s := range list {
		if strings.Contains(strings.ToLower(s.Name), substr) {
			out = append(out, s)
		}
	}
	return out
}

// PreviewFileName is the base name to store the upscaled preview of s
// under: the preview's own file stem with "_big.png" appended.
func PreviewFileName(s Sprite) string {
	p := s.Preview
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if stem == "" || stem == "." || stem == "/" {
		stem = sanitize(s.Name)
	}
	return stem + "_big.png"
}

func sanitize(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "sprite"
	}
	return sb.String()
}

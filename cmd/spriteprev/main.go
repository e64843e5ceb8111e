// Command spriteprev downloads the community sprite list, and writes a large
// white-backed rendition of every matching sprite's preview.
package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spriteloop/paths"
	"badc0de.net/pkg/go-spriteloop/spritecache"
	"badc0de.net/pkg/go-spriteloop/sprites"
)

var (
	metadataURL = flag.String("metadata_url", "https://alttpr.com/sprites", "URL of the JSON sprite list")
	filter      = flag.String("filter", "link", "Only sprites whose name contains this, ignoring case")
	cacheDir    = flag.String("cache_dir", "sprite_cache", "Directory downloads are cached in")
	outDir      = flag.String("out_dir", "images/sprites", "Directory upscaled previews are written to")
	timeout     = flag.Duration("timeout", 30*time.Second, "Timeout for each download")
)

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	store := spritecache.NewDir(*cacheDir, &spritecache.HTTPFetcher{Client: &http.Client{Timeout: *timeout}})
	ctx := context.Background()

	list, err := sprites.Metadata(ctx, store, *metadataURL)
	if err != nil {
		glog.Exitf("sprite list: %v", err)
	}
	list = sprites.Filter(list, *filter)
	glog.Infof("%d sprites match %q", len(list), *filter)

	failed := 0
	for _, s := range list {
		if err := preview(ctx, store, s); err != nil {
			glog.Errorf("%s: %v", s.Name, err)
			failed++
		}
	}
	if failed > 0 {
		glog.Exitf("%d of %d previews failed", failed, len(list))
	}
}

func preview(ctx context.Context, store *spritecache.Dir, s sprites.Sprite) error {
	b, err := store.GetOrFetch(ctx, s.Preview)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		store.Forget(s.Preview)
		return errors.Wrap(err, "decoding preview")
	}
	big, err := sprites.Upscale(img)
	if err != nil {
		return err
	}
	out := filepath.Join(*outDir, sprites.PreviewFileName(s))
	if err := paths.WriteAtomic(out, func(w io.Writer) error { return png.Encode(w, big) }); err != nil {
		return err
	}
	glog.Infof("%s: wrote %s", s.Name, out)
	return nil
}

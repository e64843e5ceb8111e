package spritecache

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

// MaxBodySize caps how much of a response HTTPFetcher reads.
const MaxBodySize = 16 << 20

// HTTPFetcher fetches http and https URLs, and decodes data URLs in place.
type HTTPFetcher struct {
	// Client is used for requests; http.DefaultClient if nil.
	Client *http.Client
}

func (f *HTTPFetcher) client() *http.Client {
	if f == nil || f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, "data:") {
		du, err := dataurl.DecodeString(key)
		if err != nil {
			return nil, errors.Wrap(err, "decoding data url")
		}
		return du.Data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %q", key)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %q", key)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("requesting %q: http status %d, want 200", key, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading response for %q", key)
	}
	if len(b) > MaxBodySize {
		return nil, errors.Errorf("response for %q larger than %d bytes", key, MaxBodySize)
	}
	return b, nil
}

package ripples

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

// ImageLoader fetches and decodes background images. Load may block; effects
// call it from a separate goroutine.
type ImageLoader interface {
	Load(ctx context.Context, src, crossOrigin string) (image.Image, error)
}

// LoaderFunc adapts a function to ImageLoader.
type LoaderFunc func(ctx context.Context, src, crossOrigin string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, src, crossOrigin string) (image.Image, error) {
	return f(ctx, src, crossOrigin)
}

// HTTPLoader loads data URIs, local files and http(s) URLs. Concurrent loads
// of the same source and credential mode share one fetch.
type HTTPLoader struct {
	// Client is used for anonymous requests.
	Client *http.Client
	// Jar supplies cookies for "use-credentials" requests.
	Jar http.CookieJar

	group   singleflight.Group
	mu      sync.Mutex
	flights map[string]*flight
}

// flight is one shared fetch. Its context is owned by the loader and is
// cancelled only when every caller waiting on it has gone.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// DefaultLoader returns an HTTPLoader using http.DefaultClient and no jar.
func DefaultLoader() *HTTPLoader {
	return &HTTPLoader{Client: http.DefaultClient}
}

// Load fetches src. Callers asking for the same source and mode share one
// fetch; a caller whose ctx ends stops waiting without affecting the others.
func (l *HTTPLoader) Load(ctx context.Context, src, crossOrigin string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageLoad, shortSource(src), err)
	}
	key := crossOrigin + "\x00" + src
	f := l.join(ctx, key)
	defer l.leave(key, f)

	ch := l.group.DoChan(key, func() (any, error) {
		return l.load(f.ctx, src, crossOrigin)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrImageLoad, shortSource(src), res.Err)
		}
		Logger().Debug("ripples: image loaded", "src", shortSource(src), "shared", res.Shared)
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", ErrImageLoad, shortSource(src), ctx.Err())
	}
}

// join registers a waiter on the flight for key, starting one if needed.
func (l *HTTPLoader) join(ctx context.Context, key string) *flight {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.flights == nil {
		l.flights = make(map[string]*flight)
	}
	f, ok := l.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		l.flights[key] = f
	}
	f.waiters++
	return f
}

// leave drops a waiter. The last one out cancels the fetch and makes the
// group forget it, so a later Load starts afresh.
func (l *HTTPLoader) leave(key string, f *flight) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	delete(l.flights, key)
	l.group.Forget(key)
}

func (l *HTTPLoader) load(ctx context.Context, src, crossOrigin string) (image.Image, error) {
	switch {
	case isDataURI(src):
		data, err := decodeDataURI(src)
		if err != nil {
			return nil, err
		}
		return decodeImage(bytes.NewReader(data))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src, crossOrigin)
	default:
		path := strings.TrimPrefix(src, "file://")
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return decodeImage(f)
	}
}

func (l *HTTPLoader) fetch(ctx context.Context, src, crossOrigin string) (image.Image, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	if crossOrigin == crossOriginWithJar && l.Jar != nil {
		withJar := *client
		withJar.Jar = l.Jar
		client = &withJar
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return decodeImage(resp.Body)
}

func decodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	Logger().Debug("ripples: decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}

// decodeDataURI returns the payload of a data: URI.
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("decoding base64 data URI: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("unescaping data URI: %w", err)
	}
	return []byte(s), nil
}

// shortSource keeps data URIs out of log lines and errors.
func shortSource(src string) string {
	if isDataURI(src) && len(src) > 32 {
		return src[:32] + "..."
	}
	return src
}

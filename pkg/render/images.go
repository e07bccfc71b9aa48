package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/sketchgraph/pkg/cache"
)

const (
	imageFetchTimeout = 30 * time.Second
	imageCacheTTL     = time.Hour
	maxImageBytes     = 10 << 20
)

// ImageCache resolves image node URLs to embeddable data URIs. Each URL
// is fetched at most once: repeat lookups while a fetch is in flight
// return empty without starting another request, and completed fetches
// are served from the cache. Failed fetches are recorded so a broken URL
// is not retried on every frame.
type ImageCache struct {
	mu       sync.Mutex
	store    cache.Cache
	client   *http.Client
	inflight map[string]bool
	failed   map[string]bool

	// OnReady, if set, is called after a fetch completes so the caller
	// can schedule a redraw.
	OnReady func(url string)
}

// NewImageCache creates an image cache backed by in-memory storage.
func NewImageCache() *ImageCache {
	return &ImageCache{
		store:    cache.NewMemoryCache(),
		client:   &http.Client{Timeout: imageFetchTimeout},
		inflight: make(map[string]bool),
		failed:   make(map[string]bool),
	}
}

// Resolve returns a data URI for the image at url, or "" while the fetch
// is pending or after it failed. The first call for a URL starts an
// asynchronous fetch.
func (c *ImageCache) Resolve(url string) string {
	if url == "" {
		return ""
	}
	// Data URIs embed their payload already.
	if strings.HasPrefix(url, "data:") {
		return url
	}

	key := cache.Key("image", url)
	if data, ok, _ := c.store.Get(context.Background(), key); ok {
		return string(data)
	}

	c.mu.Lock()
	if c.inflight[url] || c.failed[url] {
		c.mu.Unlock()
		return ""
	}
	c.inflight[url] = true
	c.mu.Unlock()

	go c.fetch(url, key)
	return ""
}

func (c *ImageCache) fetch(url, key string) {
	uri, err := c.download(url)

	c.mu.Lock()
	delete(c.inflight, url)
	if err != nil {
		c.failed[url] = true
	}
	c.mu.Unlock()

	if err == nil {
		c.store.Set(context.Background(), key, []byte(uri), imageCacheTTL)
	}
	if c.OnReady != nil {
		c.OnReady(url)
	}
}

func (c *ImageCache) download(url string) (string, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", err
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Forget drops a URL from the cache and failure list so the next Resolve
// fetches it again.
func (c *ImageCache) Forget(url string) {
	key := cache.Key("image", url)
	c.mu.Lock()
	delete(c.failed, url)
	c.mu.Unlock()
	c.store.Delete(context.Background(), key)
}

package offline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coocood/freecache"

	"github.com/claude/pplog/internal/metrics"
	"github.com/claude/pplog/internal/models"
)

// BucketPrefix is prepended to the version to name a bucket.
const BucketPrefix = "pplog-cache-"

// DefaultManifest lists the paths the app needs to start without a network.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/manifest.json",
	"/static/app.css",
}

// Store holds versioned buckets of cached assets.
type Store interface {
	PutBucket(ctx context.Context, bucket string, assets []models.Asset) error
	Match(ctx context.Context, bucket, path string) (models.Asset, bool, error)
	Buckets(ctx context.Context) ([]string, error)
	DeleteBucket(ctx context.Context, bucket string) error
}

// Cache installs the manifest into a versioned bucket and serves it
// cache-first.
type Cache struct {
	bucket   string
	manifest []string
	store    Store
	origin   Origin
	hot      *freecache.Cache
	metrics  *metrics.Manager
	log      *slog.Logger
}

// New creates a Cache for version. hotBytes sizes the in-memory layer in
// front of the store; freecache enforces its own minimum.
func New(version string, manifest []string, store Store, origin Origin, hotBytes int, m *metrics.Manager, logger *slog.Logger) *Cache {
	if len(manifest) == 0 {
		manifest = DefaultManifest
	}
	return &Cache{
		bucket:   BucketPrefix + version,
		manifest: append([]string(nil), manifest...),
		store:    store,
		origin:   origin,
		hot:      freecache.NewCache(hotBytes),
		metrics:  m,
		log:      logger,
	}
}

// Bucket returns the name of the current bucket.
func (c *Cache) Bucket() string { return c.bucket }

// Install fetches every manifest path and stores them in the current
// bucket. If any fetch fails nothing is written.
func (c *Cache) Install(ctx context.Context) error {
	assets := make([]models.Asset, 0, len(c.manifest))
	for _, p := range c.manifest {
		a, err := c.origin.Fetch(ctx, p)
		if err != nil {
			return fmt.Errorf("installing %s: %w", c.bucket, err)
		}
		a.Path = p
		assets = append(assets, a)
	}
	if err := c.store.PutBucket(ctx, c.bucket, assets); err != nil {
		return fmt.Errorf("installing %s: %w", c.bucket, err)
	}
	c.log.Info("offline cache installed", "bucket", c.bucket, "assets", len(assets))
	return nil
}

// Activate deletes every bucket other than the current one and returns
// the names removed.
func (c *Cache) Activate(ctx context.Context) ([]string, error) {
	names, err := c.store.Buckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("activating %s: %w", c.bucket, err)
	}
	var removed []string
	for _, name := range names {
		if name == c.bucket {
			continue
		}
		if err := c.store.DeleteBucket(ctx, name); err != nil {
			return removed, fmt.Errorf("activating %s: %w", c.bucket, err)
		}
		removed = append(removed, name)
	}
	c.hot.Clear()
	if len(removed) > 0 {
		c.log.Info("offline cache activated", "bucket", c.bucket, "removed", removed)
	}
	return removed, nil
}

// Match looks path up in the current bucket.
func (c *Cache) Match(ctx context.Context, path string) (models.Asset, bool, error) {
	key := []byte(path)
	if v, err := c.hot.Get(key); err == nil {
		if a, ok := decodeHot(path, v); ok {
			return a, true, nil
		}
	}

	a, ok, err := c.store.Match(ctx, c.bucket, path)
	if err != nil || !ok {
		return a, ok, err
	}
	if err := c.hot.Set(key, encodeHot(a), 0); err != nil {
		c.log.Debug("offline asset too large for hot cache", "path", path, "size", len(a.Body))
	}
	return a, true, nil
}

// Middleware answers GET and HEAD requests from the current bucket and
// passes everything else, and every miss, to next. Responses from next
// are never written back.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		// Query strings select dynamic views; only bare paths are cached.
		if r.URL.RawQuery != "" {
			next.ServeHTTP(w, r)
			return
		}

		a, ok, err := c.Match(r.Context(), r.URL.Path)
		if err != nil {
			c.log.Warn("offline cache lookup failed", "path", r.URL.Path, "error", err)
		}
		c.metrics.CacheLookup(ok)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", a.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
		w.Header().Set("X-Offline-Cache", "hit")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(a.Body) //nolint:errcheck
		}
	})
}

func encodeHot(a models.Asset) []byte {
	v := make([]byte, 0, len(a.ContentType)+1+len(a.Body))
	v = append(v, a.ContentType...)
	v = append(v, 0)
	return append(v, a.Body...)
}

func decodeHot(path string, v []byte) (models.Asset, bool) {
	i := bytes.IndexByte(v, 0)
	if i < 0 {
		return models.Asset{}, false
	}
	return models.Asset{Path: path, ContentType: string(v[:i]), Body: v[i+1:]}, true
}

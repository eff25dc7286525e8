package cache

import (
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	galleryKey         = "gallery:urls"
	galleryCheckPeriod = 30 * time.Second
)

// GalleryCache holds the listed gallery image URLs for a bounded TTL so the
// public gallery endpoint does not hit object storage on every page view.
type GalleryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewGalleryCache creates a gallery cache with the given TTL in seconds
func NewGalleryCache(ttlSeconds int) *GalleryCache {
	return &GalleryCache{
		cache: gocache.New(gocache.NoExpiration, galleryCheckPeriod),
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

// Get returns the cached URL list, or false when absent or expired
func (gc *GalleryCache) Get() ([]string, bool) {
	value, found := gc.cache.Get(galleryKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("gallery").Inc()
		return nil, false
	}

	urls, ok := value.([]string)
	if !ok {
		metrics.CacheMisses.WithLabelValues("gallery").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("gallery").Inc()
	return urls, true
}

// Set stores the URL list until the TTL elapses
func (gc *GalleryCache) Set(urls []string) {
	gc.cache.Set(galleryKey, urls, gc.ttl)
}

// Invalidate drops the cached list so the next read refetches
func (gc *GalleryCache) Invalidate() {
	gc.cache.Delete(galleryKey)
}

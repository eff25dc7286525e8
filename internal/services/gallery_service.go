package services

import (
	"context"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/config"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/cache"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"go.uber.org/zap"
)

// GalleryService serves the public gallery image URLs from Supabase Storage,
// fronted by a TTL cache so page views do not hammer the bucket listing.
type GalleryService struct {
	storage GalleryStorage
	cache   *cache.GalleryCache
	cfg     *config.Config
}

// NewGalleryService creates a new gallery service
func NewGalleryService(storage GalleryStorage, galleryCache *cache.GalleryCache, cfg *config.Config) *GalleryService {
	return &GalleryService{
		storage: storage,
		cache:   galleryCache,
		cfg:     cfg,
	}
}

// List returns the gallery image URLs, refreshing from storage on cache miss
func (s *GalleryService) List(ctx context.Context) ([]string, error) {
	if urls, found := s.cache.Get(); found {
		return urls, nil
	}

	urls, err := s.storage.ListGalleryImages(ctx, s.cfg.Gallery.Prefix)
	if err != nil {
		logger.Error("Failed to list gallery images", zap.Error(err))
		return nil, err
	}

	s.cache.Set(urls)
	return urls, nil
}

package services

import (
	"context"
	"net/url"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/formspree"
)

// NotificationRelay is the external form-to-email service (Formspree). The
// interface exists so tests can assert call counts and fail the relay on
// demand.
type NotificationRelay interface {
	Submit(ctx context.Context, form url.Values) (*formspree.Result, error)
}

// GalleryStorage lists the public image URLs backing the gallery page
type GalleryStorage interface {
	ListGalleryImages(ctx context.Context, prefix string) ([]string, error)
}

// DiscountServiceInterface is what the discount handler depends on
type DiscountServiceInterface interface {
	Claim(ctx context.Context, req *models.DiscountClaimRequest) *models.DiscountOutcome
}

// BookingServiceInterface is what the booking handler depends on
type BookingServiceInterface interface {
	Submit(ctx context.Context, req *models.BookingRequest, meta models.RequestMeta) *models.BookingOutcome
}

// GalleryServiceInterface is what the gallery handler depends on
type GalleryServiceInterface interface {
	List(ctx context.Context) ([]string, error)
}

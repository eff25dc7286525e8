package repository

import (
	"context"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
)

// DiscountRepositoryInterface defines discount claim data access. Services
// depend on this interface so tests can substitute fakes.
type DiscountRepositoryInterface interface {
	ExistingClaim(ctx context.Context, name, phone string) (bool, error)
	CreateClaim(ctx context.Context, claim *models.DiscountClaim) error
	ListClaims(ctx context.Context, limit int) ([]*models.StoredDiscount, error)
}

// BookingRepositoryInterface defines booking data access
type BookingRepositoryInterface interface {
	UpsertBooking(ctx context.Context, rec *models.BookingRecord) (int64, error)
	UpdateDelivery(ctx context.Context, id int64, status *int, response interface{}) error
	ListBookings(ctx context.Context, limit int) ([]*models.StoredBooking, error)
}

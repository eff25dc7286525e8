package repository

import (
	"context"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/database/postgres"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
)

// BookingRepository handles booking data access
type BookingRepository struct {
	client *postgres.Client
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(client *postgres.Client) *BookingRepository {
	return &BookingRepository{client: client}
}

// UpsertBooking inserts or overwrites a booking on its conflict key and
// returns the row id
func (r *BookingRepository) UpsertBooking(ctx context.Context, rec *models.BookingRecord) (int64, error) {
	return r.client.UpsertBooking(ctx, rec)
}

// UpdateDelivery writes relay delivery metadata onto a stored booking
func (r *BookingRepository) UpdateDelivery(ctx context.Context, id int64, status *int, response interface{}) error {
	return r.client.UpdateDelivery(ctx, id, status, response)
}

// ListBookings returns recent bookings, newest first
func (r *BookingRepository) ListBookings(ctx context.Context, limit int) ([]*models.StoredBooking, error) {
	return r.client.ListBookings(ctx, limit)
}

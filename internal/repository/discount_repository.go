package repository

import (
	"context"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/database/postgres"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
)

// DiscountRepository handles discount claim data access
type DiscountRepository struct {
	client *postgres.Client
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(client *postgres.Client) *DiscountRepository {
	return &DiscountRepository{client: client}
}

// ExistingClaim reports whether a claim with the same name
// (case-insensitive) or the same phone already exists
func (r *DiscountRepository) ExistingClaim(ctx context.Context, name, phone string) (bool, error) {
	return r.client.ExistingClaim(ctx, name, phone)
}

// CreateClaim inserts a new claim; returns ErrDuplicate on a lost race
func (r *DiscountRepository) CreateClaim(ctx context.Context, claim *models.DiscountClaim) error {
	return r.client.CreateClaim(ctx, claim)
}

// ListClaims returns recent claims, newest first
func (r *DiscountRepository) ListClaims(ctx context.Context, limit int) ([]*models.StoredDiscount, error) {
	return r.client.ListClaims(ctx, limit)
}

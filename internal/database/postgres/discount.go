package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	apperrors "github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/errors"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"go.uber.org/zap"
)

// ExistingClaim reports whether any prior claim matches the name
// case-insensitively OR the phone exactly. This is the fast-path check; the
// unique indexes on the table are the backstop for concurrent claims.
func (c *Client) ExistingClaim(ctx context.Context, name, phone string) (bool, error) {
	start := time.Now()
	operation := "existingClaim"

	query := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE lower(name) = lower($1) OR phone = $2)",
		c.discountsTable,
	)

	var exists bool
	err := c.pool.QueryRow(ctx, query, name, phone).Scan(&exists)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logOperation(operation, "error", duration, zap.Error(err))
		return false, fmt.Errorf("failed to check existing claim: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return exists, nil
}

// CreateClaim inserts a new discount claim. A unique violation (a concurrent
// claim won the race) comes back as ErrDuplicate so callers report the same
// conflict outcome as the synchronous check.
func (c *Client) CreateClaim(ctx context.Context, claim *models.DiscountClaim) error {
	start := time.Now()
	operation := "createClaim"

	query := fmt.Sprintf(
		"INSERT INTO %s (name, phone, car_model, discount) VALUES ($1, $2, $3, $4)",
		c.discountsTable,
	)

	_, err := c.pool.Exec(ctx, query, claim.Name, claim.Phone, claim.CarModel, claim.Discount)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err) {
			recordMetrics(operation, "duplicate", duration)
			logOperation(operation, "duplicate", duration, zap.String("phone", claim.Phone))
			return apperrors.DuplicateError("claim")
		}
		recordMetrics(operation, "error", duration)
		logOperation(operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to create claim: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logOperation(operation, "success", duration)

	return nil
}

// ListClaims returns the most recent claims, newest first
func (c *Client) ListClaims(ctx context.Context, limit int) ([]*models.StoredDiscount, error) {
	start := time.Now()
	operation := "listClaims"

	query := fmt.Sprintf(`
		SELECT id, name, phone, car_model, discount, created_at
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, c.discountsTable)

	rows, err := c.pool.Query(ctx, query, limit)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()

	claims := make([]*models.StoredDiscount, 0)
	for rows.Next() {
		var d models.StoredDiscount
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.CarModel, &d.Discount, &d.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan claim row: %w", err)
		}
		claims = append(claims, &d)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to read claim rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logOperation(operation, "success", duration, zap.Int("count", len(claims)))

	return claims, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"go.uber.org/zap"
)

// UpsertBooking inserts or overwrites a booking keyed on
// (phone, requested_datetime, service, car_type), so resubmitting the same
// request is idempotent. Returns the row id.
func (c *Client) UpsertBooking(ctx context.Context, rec *models.BookingRecord) (int64, error) {
	start := time.Now()
	operation := "upsertBooking"

	responseJSON, err := marshalResponse(rec.FormspreeResponse)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return 0, fmt.Errorf("failed to encode relay response: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			service, car_type, full_name, phone, address, requested_datetime,
			remarks, source_page, user_agent, ip, formspree_status, formspree_response
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (phone, requested_datetime, service, car_type) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			address = EXCLUDED.address,
			remarks = EXCLUDED.remarks,
			source_page = EXCLUDED.source_page,
			user_agent = EXCLUDED.user_agent,
			ip = EXCLUDED.ip,
			formspree_status = EXCLUDED.formspree_status,
			formspree_response = EXCLUDED.formspree_response,
			updated_at = now()
		RETURNING id
	`, c.bookingsTable)

	var id int64
	err = c.pool.QueryRow(ctx, query,
		rec.Service,
		rec.CarType,
		rec.FullName,
		rec.Phone,
		rec.Address,
		rec.RequestedAt,
		rec.Remarks,
		rec.SourcePage,
		rec.UserAgent,
		rec.IP,
		rec.FormspreeStatus,
		responseJSON,
	).Scan(&id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logOperation(operation, "error", duration, zap.Error(err))
		return 0, fmt.Errorf("failed to upsert booking: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logOperation(operation, "success", duration, zap.Int64("booking_id", id))

	return id, nil
}

// UpdateDelivery writes the relay outcome back onto a stored booking row
// (strict-mode follow-up after the notification attempt)
func (c *Client) UpdateDelivery(ctx context.Context, id int64, status *int, response interface{}) error {
	start := time.Now()
	operation := "updateDelivery"

	responseJSON, err := marshalResponse(response)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return fmt.Errorf("failed to encode relay response: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET formspree_status = $2, formspree_response = $3, updated_at = now()
		WHERE id = $1
	`, c.bookingsTable)

	_, err = c.pool.Exec(ctx, query, id, status, responseJSON)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logOperation(operation, "error", duration, zap.Error(err), zap.Int64("booking_id", id))
		return fmt.Errorf("failed to update delivery metadata: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// ListBookings returns the most recent bookings, newest first
func (c *Client) ListBookings(ctx context.Context, limit int) ([]*models.StoredBooking, error) {
	start := time.Now()
	operation := "listBookings"

	query := fmt.Sprintf(`
		SELECT id, service, car_type, full_name, phone, address,
		       requested_datetime, remarks, source_page, formspree_status, created_at
		FROM %s
		ORDER BY created_at DESC
		LIMIT $1
	`, c.bookingsTable)

	rows, err := c.pool.Query(ctx, query, limit)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.StoredBooking, 0)
	for rows.Next() {
		var b models.StoredBooking
		if err := rows.Scan(&b.ID, &b.Service, &b.CarType, &b.FullName, &b.Phone, &b.Address,
			&b.RequestedAt, &b.Remarks, &b.SourcePage, &b.FormspreeStatus, &b.CreatedAt); err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to read booking rows: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logOperation(operation, "success", duration, zap.Int("count", len(bookings)))

	return bookings, nil
}

// marshalResponse encodes the relay response for the jsonb column; nil stays
// NULL rather than becoming the JSON literal "null"
func marshalResponse(response interface{}) ([]byte, error) {
	if response == nil {
		return nil, nil
	}
	return json.Marshal(response)
}

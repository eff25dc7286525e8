package postgres

import (
	"context"
	"errors"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/logger"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// Client wraps the pgx pool with the lead-capture table operations. Table
// names come from configuration because the Supabase project predates this
// service and owns the naming.
type Client struct {
	pool           *pgxpool.Pool
	discountsTable string
	bookingsTable  string
}

// NewClient creates a database client for the given tables
func NewClient(pool *pgxpool.Pool, discountsTable, bookingsTable string) *Client {
	return &Client{
		pool:           pool,
		discountsTable: pgx.Identifier{discountsTable}.Sanitize(),
		bookingsTable:  pgx.Identifier{bookingsTable}.Sanitize(),
	}
}

// Ping verifies database connectivity (used by the health endpoint)
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// isUniqueViolation reports whether err is a Postgres 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
}

func logOperation(operation, status string, duration float64, fields ...zap.Field) {
	logger.LogAPICall("postgres", operation, status, duration, fields...)
}

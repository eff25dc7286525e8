package handlers

import (
	"net/http"
	"strconv"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/repository"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// InternalHandler serves the owner-facing lead listings. Routes are only
// registered when both the datastore and the internal auth token are
// configured.
type InternalHandler struct {
	discounts repository.DiscountRepositoryInterface
	bookings  repository.BookingRepositoryInterface
}

func NewInternalHandler(discounts repository.DiscountRepositoryInterface, bookings repository.BookingRepositoryInterface) *InternalHandler {
	return &InternalHandler{
		discounts: discounts,
		bookings:  bookings,
	}
}

// ListDiscounts returns recent discount claims, newest first
func (h *InternalHandler) ListDiscounts(c *gin.Context) {
	claims, err := h.discounts.ListClaims(c.Request.Context(), listLimit(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list discount claims", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"discounts": claims, "count": len(claims)})
}

// ListBookings returns recent booking requests, newest first
func (h *InternalHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context(), listLimit(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// listLimit parses the ?limit query parameter, clamped to a sane range
func listLimit(c *gin.Context) int {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

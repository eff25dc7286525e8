package handlers

import (
	"net/http"
	"strings"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service services.BookingServiceInterface
}

func NewBookingHandler(service services.BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: service}
}

// SubmitBooking handles the booking appointment form
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{"status": models.StatusInvalidJSON})
		return
	}

	outcome := h.service.Submit(c.Request.Context(), &req, captureMeta(c))
	c.JSON(bookingStatusCode(outcome.Status), bookingResponse(outcome))
}

// captureMeta reads audit metadata from request headers. The client IP
// prefers the first X-Forwarded-For hop so the edge proxy's address does not
// shadow the caller's.
func captureMeta(c *gin.Context) models.RequestMeta {
	meta := models.RequestMeta{}

	if ua := c.Request.UserAgent(); ua != "" {
		meta.UserAgent = &ua
	}
	if referer := c.Request.Referer(); referer != "" {
		meta.Referer = &referer
	}

	ip := c.ClientIP()
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			ip = first
		}
	}
	if ip != "" {
		meta.IP = &ip
	}

	return meta
}

// bookingResponse maps the service outcome onto the wire shape. Input errors
// carry only status and message; success and degraded outcomes also report
// per-sink results.
func bookingResponse(outcome *models.BookingOutcome) gin.H {
	body := gin.H{"status": outcome.Status}
	if outcome.Message != "" {
		body["message"] = outcome.Message
	}

	switch outcome.Status {
	case models.StatusOK, models.StatusFormspreeError:
		body["bookingId"] = outcome.BookingID
		body["savedToSupabase"] = outcome.SavedToSupabase
		body["emailSent"] = outcome.EmailSent
		if outcome.StoreError != nil {
			body["supabase"] = gin.H{"error": *outcome.StoreError}
		}
	}

	return body
}

func bookingStatusCode(status string) int {
	switch status {
	case models.StatusOK:
		return http.StatusOK
	case models.StatusMissingFields, models.StatusInvalidFields:
		return http.StatusBadRequest
	case models.StatusFormspreeError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

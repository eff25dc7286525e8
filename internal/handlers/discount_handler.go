package handlers

import (
	"net/http"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/models"
	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	"github.com/gin-gonic/gin"
)

type DiscountHandler struct {
	service services.DiscountServiceInterface
}

func NewDiscountHandler(service services.DiscountServiceInterface) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// ClaimDiscount handles the discount coupon claim form
func (h *DiscountHandler) ClaimDiscount(c *gin.Context) {
	var req models.DiscountClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		attachError(c, err)
		c.JSON(http.StatusBadRequest, gin.H{"status": models.StatusInvalidJSON})
		return
	}

	outcome := h.service.Claim(c.Request.Context(), &req)
	c.JSON(discountStatusCode(outcome.Status), outcome)
}

func discountStatusCode(status string) int {
	switch status {
	case models.StatusOK:
		return http.StatusOK
	case models.StatusMissingFields:
		return http.StatusBadRequest
	case models.StatusDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

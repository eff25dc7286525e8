package handlers

import (
	"net/http"

	"github.com/Mahenul-Haque-Chowdhury/crystal-auto-detailing/internal/services"
	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	service services.GalleryServiceInterface
}

func NewGalleryHandler(service services.GalleryServiceInterface) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// ListGallery returns the public gallery image URLs
func (h *GalleryHandler) ListGallery(c *gin.Context) {
	urls, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load gallery", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"images": urls})
}

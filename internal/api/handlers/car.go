package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
)

// ListCars 获取车型目录
// GET /get_cars
func (h *Handler) ListCars(c *gin.Context) {
	entries, err := h.catalog.ListCars(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list cars", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cars"})
		return
	}

	if entries == nil {
		entries = []models.CarCatalogEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"CarModels": entries})
}

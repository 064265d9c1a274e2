package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
)

// GetDealerReviews 获取带情感标签的经销商评价
// GET /reviews/dealer/:id
func (h *Handler) GetDealerReviews(c *gin.Context) {
	id, _ := parseID(c.Param("id"))

	res := h.reviews.GetDealerReviews(c.Request.Context(), id)
	if res.Status != http.StatusOK {
		c.JSON(res.Status, gin.H{"status": res.Status, "message": res.Message})
		return
	}

	reviews := res.Reviews
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"reviews": reviews,
	})
}

// AddReview 提交评价，需要登录
// POST /add_review
func (h *Handler) AddReview(c *gin.Context) {
	user := currentUser(c)

	var body []byte
	if user != nil {
		raw, err := c.GetRawData()
		if err != nil {
			h.logger.Warn("Failed to read review body", zap.Error(err))
		}
		body = raw
	}

	out := h.reviews.AddReview(c.Request.Context(), user, body)
	if out.Message != "" {
		c.JSON(out.Status, gin.H{"status": out.Status, "message": out.Message})
		return
	}
	c.JSON(out.Status, gin.H{"status": out.Status})
}

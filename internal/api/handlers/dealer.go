package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/langchou/cardealer/internal/api/inventory"
)

// ListDealers 获取经销商列表
// GET /get_dealers, GET /get_dealers/:state
func (h *Handler) ListDealers(c *gin.Context) {
	st := c.Param("state")
	if st == "" {
		st = inventory.AllStates
	}

	dealers := h.dealers.ListDealers(c.Request.Context(), st)
	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"dealers": dealers,
	})
}

// GetDealer 获取经销商详情
// GET /dealer/:id
func (h *Handler) GetDealer(c *gin.Context) {
	id, _ := parseID(c.Param("id"))

	res := h.dealers.GetDealer(c.Request.Context(), id)
	if res.Status != http.StatusOK {
		c.JSON(res.Status, gin.H{"status": res.Status, "message": res.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"dealer": res.Dealer,
	})
}

// parseID 解析路径或查询中的 ID，非正整数视为无效
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

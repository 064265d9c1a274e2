package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
)

const userContextKey = "user"

// SessionMiddleware 根据会话 Cookie 解析当前用户
// 会话无效或过期时按未登录处理，不中断请求
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(h.cookie.Name)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		user, err := h.auth.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			h.logger.Warn("Failed to resolve session", zap.Error(err))
		}
		if user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// CORSMiddleware CORS 中间件
// 带 Cookie 的跨域请求需回显 Origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		} else {
			c.Header("Access-Control-Allow-Origin", "*")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// currentUser 当前登录用户，未登录时返回 nil
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

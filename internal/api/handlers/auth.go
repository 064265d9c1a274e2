package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
	"github.com/langchou/cardealer/internal/service"
)

const statusAuthenticated = "Authenticated"

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type registerRequest struct {
	UserName  string `json:"userName"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Login 用户登录
// POST /login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	user, session, err := h.auth.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Error("Failed to login", zap.String("username", req.UserName), zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"userName": req.UserName})
		return
	}

	h.setSessionCookie(c, session)
	h.logger.Info("User logged in", zap.String("username", user.Username))
	c.JSON(http.StatusOK, gin.H{"userName": user.Username, "status": statusAuthenticated})
}

// Logout 注销当前会话
// GET /logout
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookie.Name); err == nil && sessionID != "" {
		if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
			h.logger.Error("Failed to logout", zap.Error(err))
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"userName": ""})
}

// Register 注册新用户并直接登录
// POST /register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	user, session, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.UserName,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	switch {
	case errors.Is(err, service.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"userName": req.UserName, "error": "Already Registered"})
		return
	case errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"userName": req.UserName, "error": "Username and password required"})
		return
	case err != nil:
		h.logger.Error("Failed to register user", zap.String("username", req.UserName), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	h.setSessionCookie(c, session)
	h.logger.Info("User registered", zap.String("username", user.Username))
	c.JSON(http.StatusOK, gin.H{"userName": user.Username, "status": statusAuthenticated})
}

func (h *Handler) setSessionCookie(c *gin.Context, session *models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.ID, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

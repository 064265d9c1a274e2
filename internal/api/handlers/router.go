package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
	"github.com/langchou/cardealer/internal/service"
	"github.com/langchou/cardealer/internal/state"
	"github.com/langchou/cardealer/pkg/ws"
)

// CarCatalog 车型目录
type CarCatalog interface {
	ListCars(ctx context.Context) ([]models.CarCatalogEntry, error)
}

// DealerDirectory 经销商查询
type DealerDirectory interface {
	ListDealers(ctx context.Context, state string) []models.Dealer
	GetDealer(ctx context.Context, dealerID int64) service.DealerResult
}

// ReviewFlow 评价查询与提交
type ReviewFlow interface {
	GetDealerReviews(ctx context.Context, dealerID int64) models.DealerReviews
	AddReview(ctx context.Context, user *models.User, body []byte) state.Outcome
}

// Authenticator 注册登录与会话解析
type Authenticator interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, *models.Session, error)
	Login(ctx context.Context, username, password string) (*models.User, *models.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*models.User, error)
}

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// CookieConfig 会话 Cookie 配置
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handler HTTP 处理器
type Handler struct {
	logger   *zap.Logger
	catalog  CarCatalog
	dealers  DealerDirectory
	reviews  ReviewFlow
	auth     Authenticator
	wsHub    *ws.Hub
	db       Pinger
	cookie   CookieConfig
	upgrader websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	catalog CarCatalog,
	dealers DealerDirectory,
	reviews ReviewFlow,
	auth Authenticator,
	wsHub *ws.Hub,
	db Pinger,
	cookie CookieConfig,
) *Handler {
	if cookie.Name == "" {
		cookie.Name = "sessionid"
	}
	return &Handler{
		logger:  logger,
		catalog: catalog,
		dealers: dealers,
		reviews: reviews,
		auth:    auth,
		wsHub:   wsHub,
		db:      db,
		cookie:  cookie,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 前端与后端分开部署
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(h.SessionMiddleware())

	// 车型目录
	r.GET("/get_cars", h.ListCars)

	// 用户
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/register", h.Register)

	// 经销商
	r.GET("/get_dealers", h.ListDealers)
	r.GET("/get_dealers/:state", h.ListDealers)
	r.GET("/dealer/:id", h.GetDealer)

	// 评价
	r.GET("/reviews/dealer/:id", h.GetDealerReviews)
	r.POST("/add_review", h.AddReview)

	// WebSocket
	r.GET("/ws/reviews", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket 订阅新评价推送，可通过 ?dealer= 只订阅单个经销商
func (h *Handler) HandleWebSocket(c *gin.Context) {
	dealerID, ok := parseID(c.Query("dealer"))
	if !ok && c.Query("dealer") != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dealer ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn, dealerID)
	if !client.Register() {
		conn.Close()
		return
	}

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查，数据库不可达时返回 503
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Database ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "degraded",
			"database":   "unreachable",
			"ws_clients": h.wsHub.ClientCount(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"database":   "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}

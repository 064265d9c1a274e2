package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/langchou/cardealer/internal/api/handlers"
	"github.com/langchou/cardealer/internal/api/inventory"
	"github.com/langchou/cardealer/internal/api/sentiment"
	"github.com/langchou/cardealer/internal/config"
	"github.com/langchou/cardealer/internal/repository"
	"github.com/langchou/cardealer/internal/service"
	"github.com/langchou/cardealer/pkg/ws"
)

const sessionSweepInterval = time.Hour

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting cardealer",
		zap.String("port", cfg.ServerPort),
		zap.String("backend_url", cfg.BackendURL),
		zap.String("sentiment_analyzer_url", cfg.SentimentAnalyzerURL))

	// 创建 context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接数据库
	db, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect database", zap.Error(err))
	}
	defer db.Close()

	// 执行数据库迁移
	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migrated successfully")

	// 创建 Repository
	carRepo := repository.NewCarRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// 上游服务客户端
	inventoryClient := inventory.NewClient(cfg.BackendURL, cfg.UpstreamTimeout, logger)
	sentimentClient := sentiment.NewClient(cfg.SentimentAnalyzerURL, cfg.UpstreamTimeout, logger)

	// 创建 WebSocket Hub
	wsHub := ws.NewHub(logger)
	go wsHub.Run(ctx)

	// 创建业务服务
	catalogService := service.NewCatalogService(carRepo, nil, logger)
	dealerService := service.NewDealerService(inventoryClient, logger)
	reviewService := service.NewReviewService(inventoryClient, sentimentClient, wsHub, logger)
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, logger)

	go sweepSessions(ctx, sessionRepo, logger)

	// 创建 HTTP 处理器
	handler := handlers.NewHandler(
		logger,
		catalogService,
		dealerService,
		reviewService,
		authService,
		wsHub,
		db,
		handlers.CookieConfig{
			Name:   cfg.SessionCookieName,
			Secure: cfg.SessionCookieSecure,
			TTL:    cfg.SessionTTL,
		},
	)

	// 设置 Gin 模式
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.CORSMiddleware())

	// 注册路由
	handler.RegisterRoutes(router)

	// 启动 HTTP 服务器
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// 优雅关闭
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// 停止 Hub 与后台任务
	cancel()

	logger.Info("Server exited")
}

// initLogger 初始化日志
func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}

// sweepSessions 定期清理过期会话
func sweepSessions(ctx context.Context, sessions *repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("Failed to delete expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Expired sessions deleted", zap.Int64("count", n))
			}
		}
	}
}

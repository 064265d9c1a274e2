package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
)

// CatalogStore 车型目录存储
type CatalogStore interface {
	CountMakes(ctx context.Context) (int64, error)
	SeedCatalog(ctx context.Context, seeds []models.CatalogSeed) (bool, error)
	ListCatalog(ctx context.Context) ([]models.CarCatalogEntry, error)
}

// CatalogService 车型目录服务
type CatalogService struct {
	store  CatalogStore
	seeds  []models.CatalogSeed
	logger *zap.Logger

	seedMu sync.Mutex
}

// NewCatalogService 创建目录服务，seeds 为空时使用 DefaultCatalog
func NewCatalogService(store CatalogStore, seeds []models.CatalogSeed, logger *zap.Logger) *CatalogService {
	if len(seeds) == 0 {
		seeds = DefaultCatalog()
	}
	return &CatalogService{
		store:  store,
		seeds:  seeds,
		logger: logger,
	}
}

// ListCars 列出所有车型及品牌，首次访问且没有品牌时写入初始目录
func (s *CatalogService) ListCars(ctx context.Context) ([]models.CarCatalogEntry, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}

	entries, err := s.store.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return entries, nil
}

func (s *CatalogService) ensureSeeded(ctx context.Context) error {
	count, err := s.store.CountMakes(ctx)
	if err != nil {
		return fmt.Errorf("count car makes: %w", err)
	}
	if count > 0 {
		return nil
	}

	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	// 等锁期间可能已有其他请求完成初始化
	count, err = s.store.CountMakes(ctx)
	if err != nil {
		return fmt.Errorf("count car makes: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeded, err := s.store.SeedCatalog(ctx, s.seeds)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if seeded {
		s.logger.Info("Car catalog seeded", zap.Int("makes", len(s.seeds)))
	}
	return nil
}

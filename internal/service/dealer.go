package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/models"
)

// MsgBadRequest 缺少经销商 ID 时的提示
const MsgBadRequest = "Bad Request"

// DealerSource 经销商数据来源
type DealerSource interface {
	FetchDealers(ctx context.Context, state string) ([]models.Dealer, error)
	FetchDealer(ctx context.Context, id int64) (models.Dealer, error)
}

// DealerResult 单个经销商查询结果
type DealerResult struct {
	Status  int
	Dealer  models.Dealer
	Message string
}

// DealerService 经销商服务
type DealerService struct {
	source DealerSource
	logger *zap.Logger
}

// NewDealerService 创建经销商服务
func NewDealerService(source DealerSource, logger *zap.Logger) *DealerService {
	return &DealerService{source: source, logger: logger}
}

// ListDealers 列出经销商，state 为 All 时不过滤
// 上游失败时返回 nil，调用方按“无数据”处理
func (s *DealerService) ListDealers(ctx context.Context, state string) []models.Dealer {
	dealers, err := s.source.FetchDealers(ctx, state)
	if err != nil {
		s.logger.Warn("Failed to fetch dealers", zap.String("state", state), zap.Error(err))
		return nil
	}
	return dealers
}

// GetDealer 获取经销商详情，dealerID 无效时返回 400 且不访问上游
func (s *DealerService) GetDealer(ctx context.Context, dealerID int64) DealerResult {
	if dealerID <= 0 {
		return DealerResult{Status: http.StatusBadRequest, Message: MsgBadRequest}
	}

	dealer, err := s.source.FetchDealer(ctx, dealerID)
	if err != nil {
		s.logger.Warn("Failed to fetch dealer", zap.Int64("dealer_id", dealerID), zap.Error(err))
		return DealerResult{Status: http.StatusOK}
	}
	return DealerResult{Status: http.StatusOK, Dealer: dealer}
}

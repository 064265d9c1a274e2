package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/api/upstream"
	"github.com/langchou/cardealer/internal/models"
)

// AllStates 不按州过滤
const AllStates = "All"

// 错误定义
var (
	ErrUnavailable    = upstream.ErrUnavailable
	ErrUpstreamStatus = upstream.ErrUpstreamStatus
	ErrDecode         = upstream.ErrDecode
)

// InsertResult 新增评价后上游返回的结果
type InsertResult struct {
	StatusCode int
	Body       []byte
}

// Client 经销商/评价库存服务客户端
// 经销商与评价按对象透传，不对字段类型做校验
type Client struct {
	*upstream.Client
	logger *zap.Logger
}

// NewClient 创建库存服务客户端
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		Client: upstream.NewClient("inventory", baseURL, timeout, logger),
		logger: logger,
	}
}

// DealersEndpoint 经销商列表路径，state 为 All 或空时不过滤
func DealersEndpoint(state string) string {
	if state == "" || state == AllStates {
		return "/fetchDealers"
	}
	return "/fetchDealers/" + url.PathEscape(state)
}

// FetchDealers 获取经销商列表
func (c *Client) FetchDealers(ctx context.Context, state string) ([]models.Dealer, error) {
	res := c.Get(ctx, DealersEndpoint(state))
	dealers, err := decodeRecords[models.Dealer](c, res)
	if err != nil {
		return nil, fmt.Errorf("fetch dealers: %w", err)
	}
	return dealers, nil
}

// FetchDealer 获取单个经销商
// 上游可能返回对象或单元素数组，空数组或 null 视为不存在（nil, nil）
func (c *Client) FetchDealer(ctx context.Context, id int64) (models.Dealer, error) {
	res := c.Get(ctx, "/fetchDealer/"+strconv.FormatInt(id, 10))
	if !res.OK() {
		return nil, fmt.Errorf("fetch dealer %d: %w", id, res.Err)
	}

	if trimmed := bytes.TrimSpace(res.Body); len(trimmed) > 0 && trimmed[0] == '[' {
		dealers, err := decodeRecords[models.Dealer](c, res)
		if err != nil {
			return nil, fmt.Errorf("fetch dealer %d: %w", id, err)
		}
		if len(dealers) == 0 {
			return nil, nil
		}
		return dealers[0], nil
	}

	var dealer models.Dealer
	if err := res.Decode(&dealer); err != nil {
		return nil, fmt.Errorf("fetch dealer %d: %w", id, err)
	}
	return dealer, nil
}

// FetchReviews 获取经销商评价列表
func (c *Client) FetchReviews(ctx context.Context, dealerID int64) ([]models.Review, error) {
	res := c.Get(ctx, "/fetchReviews/dealer/"+strconv.FormatInt(dealerID, 10))
	reviews, err := decodeRecords[models.Review](c, res)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for dealer %d: %w", dealerID, err)
	}
	return reviews, nil
}

// InsertReview 提交新评价，请求体原样转发
func (c *Client) InsertReview(ctx context.Context, review *models.ReviewSubmission) (*InsertResult, error) {
	res := c.Post(ctx, "/insert_review", review)
	if !res.OK() {
		return nil, fmt.Errorf("insert review: %w", res.Err)
	}
	return &InsertResult{StatusCode: res.StatusCode, Body: res.Body}, nil
}

// decodeRecords 逐个解码数组元素，单条记录字段异常不影响其他记录
// 非对象元素跳过并记录日志
func decodeRecords[T ~map[string]any](c *Client, res upstream.Result) ([]T, error) {
	var raw []json.RawMessage
	if err := res.Decode(&raw); err != nil {
		return nil, err
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		var record T
		if err := upstream.Unmarshal(item, &record); err != nil || record == nil {
			c.logger.Warn("Skipping non-object record from inventory",
				zap.String("url", res.URL),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

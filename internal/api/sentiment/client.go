package sentiment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/api/upstream"
)

// 错误定义
var (
	ErrUnavailable = upstream.ErrUnavailable
	ErrEmptyLabel  = errors.New("empty sentiment label")
)

type analyzeResponse struct {
	Sentiment string `json:"sentiment"`
}

// Client 情感分析服务客户端
type Client struct {
	*upstream.Client
}

// NewClient 创建情感分析客户端
// baseURL 可以带或不带结尾的 "/"
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{Client: upstream.NewClient("sentiment", strings.TrimRight(baseURL, "/"), timeout, logger)}
}

// Analyze 分析文本情感，返回标签（如 positive / neutral / negative）
func (c *Client) Analyze(ctx context.Context, text string) (string, error) {
	var resp analyzeResponse
	if err := c.Get(ctx, "/analyze/"+url.PathEscape(text)).Decode(&resp); err != nil {
		return "", fmt.Errorf("analyze sentiment: %w", err)
	}
	if resp.Sentiment == "" {
		return "", fmt.Errorf("analyze sentiment: %w", ErrEmptyLabel)
	}
	return resp.Sentiment, nil
}

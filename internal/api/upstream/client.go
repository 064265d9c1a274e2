package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrUnavailable    = errors.New("upstream unavailable")
	ErrUpstreamStatus = errors.New("upstream returned error status")
	ErrDecode         = errors.New("decode upstream response")
)

// Param 查询参数，按调用顺序拼接
type Param struct {
	Key   string
	Value string
}

// Result 一次上游调用的结果
// Err 为 nil 时 Body 为上游返回的 2xx 响应体
type Result struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

// OK 调用是否成功
func (r Result) OK() bool {
	return r.Err == nil
}

// Decode 将响应体解码到 out
func (r Result) Decode(out any) error {
	if r.Err != nil {
		return r.Err
	}
	return Unmarshal(r.Body, out)
}

// Unmarshal 解码 JSON，解码到 any 的数字保留为 json.Number 以便原样透传
func Unmarshal(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Client 通用上游 HTTP 客户端
// 网络异常不会以 panic 或未包装的错误形式传播，统一记录日志并放入 Result.Err
type Client struct {
	name    string
	baseURL string
	rest    *resty.Client
	logger  *zap.Logger
}

// NewClient 创建上游客户端
func NewClient(name, baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		name:    name,
		baseURL: baseURL,
		rest: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		logger: logger,
	}
}

// Resty 返回底层 resty 客户端
func (c *Client) Resty() *resty.Client {
	return c.rest
}

// BuildURL 拼接 base + endpoint + 查询串
// 参数顺序即调用顺序，无参数时不附加 "?"
func BuildURL(base, endpoint string, params []Param) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString(endpoint)

	for i, p := range params {
		if i == 0 {
			sb.WriteByte('?')
		} else {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}

	return sb.String()
}

// Get 发送 GET 请求
func (c *Client) Get(ctx context.Context, endpoint string, params ...Param) Result {
	requestURL := BuildURL(c.baseURL, endpoint, params)
	c.logger.Debug("GET from upstream", zap.String("upstream", c.name), zap.String("url", requestURL))

	resp, err := c.rest.R().SetContext(ctx).Get(requestURL)
	return c.result(requestURL, resp, err)
}

// Post 以 JSON 请求体发送 POST 请求
func (c *Client) Post(ctx context.Context, endpoint string, payload any) Result {
	requestURL := BuildURL(c.baseURL, endpoint, nil)
	c.logger.Debug("POST to upstream", zap.String("upstream", c.name), zap.String("url", requestURL))

	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(requestURL)
	return c.result(requestURL, resp, err)
}

func (c *Client) result(requestURL string, resp *resty.Response, err error) Result {
	res := Result{URL: requestURL}

	if err != nil {
		c.logger.Warn("Network exception occurred",
			zap.String("upstream", c.name),
			zap.String("url", requestURL),
			zap.Error(err),
		)
		res.Err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		return res
	}

	res.StatusCode = resp.StatusCode()
	res.Body = resp.Body()

	if !resp.IsSuccess() {
		c.logger.Warn("Upstream returned error status",
			zap.String("upstream", c.name),
			zap.String("url", requestURL),
			zap.Int("status", res.StatusCode),
		)
		res.Err = fmt.Errorf("%w: status=%d body=%s", ErrUpstreamStatus, res.StatusCode, string(res.Body))
	}

	return res
}

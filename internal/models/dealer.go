package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SentimentUnknown 情感分析失败时的兜底标签
const SentimentUnknown = "unknown"

// ErrInvalidJSON 请求体不是合法 JSON
var ErrInvalidJSON = errors.New("invalid JSON")

// Dealer 经销商信息（来自库存服务），字段原样透传
type Dealer map[string]any

// Review 经销商评价（来自库存服务），字段原样透传，返回前补充 sentiment
type Review map[string]any

// ID 评价 ID，缺失或无法识别时返回 0
func (r Review) ID() int64 {
	return intField(r, "id")
}

// Text 评价正文，非字符串时返回空
func (r Review) Text() string {
	s, _ := r["review"].(string)
	return s
}

// SetSentiment 写入情感标签
func (r Review) SetSentiment(label string) {
	r["sentiment"] = label
}

// DealerReviews 带情感标签的评价列表结果
type DealerReviews struct {
	Status  int      `json:"status"`
	Reviews []Review `json:"reviews,omitempty"`
	Message string   `json:"message,omitempty"`
}

// ReviewSubmission 新增评价请求体
// 只校验 JSON 语法，内容原样转发给库存服务
type ReviewSubmission struct {
	value  any
	fields map[string]any // 顶层为对象时非 nil
}

// ParseReviewSubmission 解析请求体，语法错误时返回 ErrInvalidJSON
func ParseReviewSubmission(body []byte) (*ReviewSubmission, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	var value any
	if err := decodeNumbers(body, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	s := &ReviewSubmission{value: value}
	s.fields, _ = value.(map[string]any)
	return s, nil
}

// DealerID 读取 dealership 字段，数字或数字字符串均可，无法识别时返回 0
func (s *ReviewSubmission) DealerID() int64 {
	return intField(s.fields, "dealership")
}

// DefaultName name 缺失或为空字符串时填入 name，顶层不是对象时不做处理
func (s *ReviewSubmission) DefaultName(name string) {
	if s.fields == nil {
		return
	}
	switch v := s.fields["name"].(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) != "" {
			return
		}
	default:
		return
	}
	s.fields["name"] = name
}

// Value 解析后的完整内容（用于推送）
func (s *ReviewSubmission) Value() any {
	return s.value
}

// MarshalJSON 按解析结果原样编码，数字保持原始字面量
func (s *ReviewSubmission) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

func decodeNumbers(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// intField 宽松读取整数字段，兼容 json.Number、数字字符串与 float64
func intField(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

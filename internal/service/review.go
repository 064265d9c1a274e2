package service

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/langchou/cardealer/internal/api/inventory"
	"github.com/langchou/cardealer/internal/models"
	"github.com/langchou/cardealer/internal/state"
)

// ReviewSource 评价数据来源
type ReviewSource interface {
	FetchReviews(ctx context.Context, dealerID int64) ([]models.Review, error)
	InsertReview(ctx context.Context, review *models.ReviewSubmission) (*inventory.InsertResult, error)
}

// SentimentAnalyzer 情感分析
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

// ReviewNotifier 新评价推送
type ReviewNotifier interface {
	BroadcastReview(dealerID int64, review interface{})
}

// ReviewService 评价服务
type ReviewService struct {
	source   ReviewSource
	analyzer SentimentAnalyzer
	notifier ReviewNotifier
	logger   *zap.Logger
}

// NewReviewService 创建评价服务，notifier 可为 nil
func NewReviewService(source ReviewSource, analyzer SentimentAnalyzer, notifier ReviewNotifier, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		source:   source,
		analyzer: analyzer,
		notifier: notifier,
		logger:   logger,
	}
}

// GetDealerReviews 获取经销商评价并逐条补充情感标签
// dealerID 无效时返回 400 且不访问任何上游；评价列表获取失败时返回空列表
func (s *ReviewService) GetDealerReviews(ctx context.Context, dealerID int64) models.DealerReviews {
	if dealerID <= 0 {
		return models.DealerReviews{Status: http.StatusBadRequest, Message: MsgBadRequest}
	}

	reviews, err := s.source.FetchReviews(ctx, dealerID)
	if err != nil {
		s.logger.Warn("Failed to fetch reviews", zap.Int64("dealer_id", dealerID), zap.Error(err))
		reviews = nil
	}

	enriched := make([]models.Review, 0, len(reviews))
	for _, review := range reviews {
		review.SetSentiment(s.sentimentOf(ctx, review))
		enriched = append(enriched, review)
	}

	return models.DealerReviews{Status: http.StatusOK, Reviews: enriched}
}

func (s *ReviewService) sentimentOf(ctx context.Context, review models.Review) string {
	label, err := s.analyzer.Analyze(ctx, review.Text())
	if err != nil {
		s.logger.Warn("Sentiment analysis failed, using fallback label",
			zap.Int64("review_id", review.ID()),
			zap.String("fallback", models.SentimentUnknown),
			zap.Error(err))
		return models.SentimentUnknown
	}
	return label
}

// AddReview 提交新评价，返回终态对应的状态码与消息
// user 为 nil 时直接拒绝；请求体语法错误时返回 400；上游失败时返回 401
// 请求体只做语法检查，内容原样转发
func (s *ReviewService) AddReview(ctx context.Context, user *models.User, body []byte) state.Outcome {
	sub := state.NewSubmission(func(from, to string) {
		s.logger.Debug("Review submission transition", zap.String("from", from), zap.String("to", to))
	})

	s.addReview(ctx, sub, user, body)

	outcome, ok := sub.Outcome()
	if !ok {
		s.logger.Error("Review submission ended in non-terminal state", zap.String("state", sub.Current()))
		return state.Outcome{Status: http.StatusUnauthorized, Message: "Error in posting review"}
	}
	return outcome
}

func (s *ReviewService) addReview(ctx context.Context, sub *state.Submission, user *models.User, body []byte) {
	if user == nil {
		s.trigger(ctx, sub, state.EventDeny)
		return
	}
	s.trigger(ctx, sub, state.EventAuthorize)

	submission, err := models.ParseReviewSubmission(body)
	if err != nil {
		s.logger.Info("Invalid review payload", zap.String("user", user.Username), zap.Error(err))
		s.trigger(ctx, sub, state.EventReject)
		return
	}
	submission.DefaultName(displayName(user))
	s.trigger(ctx, sub, state.EventParse)

	dealerID := submission.DealerID()
	if _, err := s.source.InsertReview(ctx, submission); err != nil {
		s.logger.Warn("Failed to post review",
			zap.String("user", user.Username),
			zap.Int64("dealer_id", dealerID),
			zap.Error(err))
		s.trigger(ctx, sub, state.EventFail)
		return
	}
	s.trigger(ctx, sub, state.EventPost)

	if s.notifier != nil {
		s.notifier.BroadcastReview(dealerID, submission.Value())
	}
}

func (s *ReviewService) trigger(ctx context.Context, sub *state.Submission, event string) {
	// 请求被取消时仍需落到终态
	if err := sub.Trigger(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("Review submission transition failed", zap.String("event", event), zap.Error(err))
	}
}

func displayName(user *models.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Username
	}
	return name
}

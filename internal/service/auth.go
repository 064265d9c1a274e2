package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/langchou/cardealer/internal/models"
	"github.com/langchou/cardealer/internal/repository"
)

// 错误定义
var (
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("username and password required")
)

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionStore 会话存储
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

// AuthService 用户注册、登录与会话
type AuthService struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	hashCost int
	logger   *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(users UserStore, sessions SessionStore, ttl time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

// Register 注册并登录新用户，用户名已存在时返回 ErrAlreadyRegistered
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Session, error) {
	if in.Username == "" || in.Password == "" {
		return nil, nil, ErrMissingCredentials
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, nil, ErrAlreadyRegistered
	}
	s.logger.Debug("New user", zap.String("username", in.Username))

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时由唯一约束兜底
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, nil, ErrAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login 校验用户名密码并创建会话，失败时返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout 结束会话，会话不存在时不报错
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate 根据会话 ID 获取当前用户，无效或过期时返回 nil, nil
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*models.User, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.IsExpired() {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	return user, nil
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/langchou/cardealer/internal/models"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := NewAuthService(users, sessions, time.Hour, zap.NewNop())
	svc.hashCost = bcrypt.MinCost
	return svc, users, sessions
}

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username:  username,
		Password:  "s3cret-pass",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, users, sessions := newTestAuthService()

	user, session, err := svc.Register(context.Background(), registerInput("jane"))
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, session)

	assert.Equal(t, "jane", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Equal(t, user.ID, session.UserID)
	_, err = uuid.Parse(session.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, users.creates)
	assert.Equal(t, 1, sessions.count())
}

func TestAuthService_RegisterTwice(t *testing.T) {
	svc, users, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), registerInput("jane"))
	require.NoError(t, err)

	user, session, err := svc.Register(context.Background(), registerInput("jane"))
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Nil(t, user)
	assert.Nil(t, session)
	assert.Equal(t, 1, users.creates, "no duplicate account")
}

func TestAuthService_RegisterMissingCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _, err := svc.Register(context.Background(), RegisterInput{Username: "jane"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	_, _, err := svc.Register(context.Background(), registerInput("jane"))
	require.NoError(t, err)

	user, session, err := svc.Login(context.Background(), "jane", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, 2, sessions.count())

	authed, err := svc.Authenticate(context.Background(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, authed)
	assert.Equal(t, user.ID, authed.ID)
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, _, err := svc.Register(context.Background(), registerInput("jane"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "jane", "nope"},
		{"unknown user", "john", "s3cret-pass"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, session, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, user)
			assert.Nil(t, session)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, sessions := newTestAuthService()
	_, session, err := svc.Register(context.Background(), registerInput("jane"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), session.ID))
	assert.Zero(t, sessions.count())

	user, err := svc.Authenticate(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, user)

	// 无会话或非法 ID 也不报错
	assert.NoError(t, svc.Logout(context.Background(), ""))
	assert.NoError(t, svc.Logout(context.Background(), "not-a-uuid"))
}

func TestAuthService_AuthenticateExpired(t *testing.T) {
	svc, users, sessions := newTestAuthService()
	user := &models.User{Username: "old"}
	require.NoError(t, users.Create(context.Background(), user))

	expired := &models.Session{ID: uuid.NewString(), UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, sessions.Create(context.Background(), expired))

	got, err := svc.Authenticate(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

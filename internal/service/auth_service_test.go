package service

import (
	"context"
	"testing"

	"github.com/fitlog/backend/internal/config"
	"github.com/fitlog/backend/internal/domain"
	"github.com/fitlog/backend/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	userRepo := &mockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, repository.ErrNotFound)

	newID := primitive.NewObjectID()
	userRepo.
		On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*domain.User)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)
		}).
		Return(newID, nil)

	svc := NewAuthService(userRepo, config.AuthConfig{}, testJWTSecret, 0)
	token, user, err := svc.Register(context.Background(), "Ana", "new@example.com", "hunter2hunter2")
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.Equal(t, newID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{}
	userRepo.
		On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&domain.User{ID: primitive.NewObjectID(), Email: "taken@example.com"}, nil)

	svc := NewAuthService(userRepo, config.AuthConfig{}, testJWTSecret, 0)
	_, _, err := svc.Register(context.Background(), "Ana", "taken@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	userRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_RegisterWhitelist(t *testing.T) {
	authCfg := config.AuthConfig{EmailWhitelist: []string{"allowed@example.com"}}

	t.Run("rejected", func(t *testing.T) {
		userRepo := &mockUserRepo{}
		svc := NewAuthService(userRepo, authCfg, testJWTSecret, 0)

		_, _, err := svc.Register(context.Background(), "Ana", "stranger@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrEmailNotWhitelisted)
		userRepo.AssertNotCalled(t, "GetByEmail")
		userRepo.AssertNotCalled(t, "Create")
	})

	t.Run("case insensitive match", func(t *testing.T) {
		userRepo := &mockUserRepo{}
		userRepo.On("GetByEmail", mock.Anything, "Allowed@Example.com").Return(nil, repository.ErrNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(primitive.NewObjectID(), nil)

		svc := NewAuthService(userRepo, authCfg, testJWTSecret, 0)
		_, _, err := svc.Register(context.Background(), "Ana", "Allowed@Example.com", "hunter2hunter2")
		assert.NoError(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}

	userRepo := &mockUserRepo{}
	userRepo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)
	userRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)

	svc := NewAuthService(userRepo, config.AuthConfig{}, testJWTSecret, 0)

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.Login(context.Background(), "ana@example.com", "correct horse")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Empty(t, user.PasswordHash)

		claims := &jwtClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, stored.ID.Hex(), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
	})
}

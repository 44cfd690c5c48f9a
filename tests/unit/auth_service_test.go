package unit_test

import (
	"context"
	"testing"
	"time"

	"greenbasket/internal/config"
	"greenbasket/internal/domain"
	"greenbasket/internal/service/auth"
	"greenbasket/tests/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService() (auth.Service, *mocks.UserRepository) {
	userRepo := new(mocks.UserRepository)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: 15 * time.Minute,
	}
	return auth.NewService(userRepo, cfg), userRepo
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, userRepo := newAuthService()

		userRepo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil).Once()
		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "ana@example.com" && u.IsActive && u.PasswordHash != "hunter2secret"
		})).Return(nil).Once()

		user, tokens, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "ana@example.com",
			Password: "hunter2secret",
			FullName: "Ana",
		})

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.Equal(t, int64(900), tokens.ExpiresIn)
		userRepo.AssertExpectations(t)
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		svc, userRepo := newAuthService()

		userRepo.On("ExistsByEmail", ctx, "ana@example.com").Return(true, nil).Once()

		_, _, err := svc.Register(ctx, domain.CreateUserInput{
			Email:    "ana@example.com",
			Password: "hunter2secret",
		})

		assert.ErrorIs(t, err, auth.ErrEmailExists)
	})

	t.Run("Short Password", func(t *testing.T) {
		svc, _ := newAuthService()

		_, _, err := svc.Register(ctx, domain.CreateUserInput{Email: "x@example.com", Password: "short"})

		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
		assert.Equal(t, "password", vErr.Field)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2secret"), bcrypt.MinCost)
	stored := &domain.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}

	t.Run("Success Then Token Round Trip", func(t *testing.T) {
		svc, userRepo := newAuthService()

		userRepo.On("GetByEmail", ctx, "ana@example.com").Return(stored, nil).Once()

		user, tokens, err := svc.Login(ctx, domain.LoginInput{Email: "ana@example.com", Password: "hunter2secret"})

		assert.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)

		claims, err := svc.ValidateAccessToken(tokens.AccessToken)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, stored.Email, claims.Email)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, userRepo := newAuthService()

		userRepo.On("GetByEmail", ctx, "ana@example.com").Return(stored, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ana@example.com", Password: "nope"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		svc, userRepo := newAuthService()

		userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil).Once()

		_, _, err := svc.Login(ctx, domain.LoginInput{Email: "ghost@example.com", Password: "whatever"})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	svc, _ := newAuthService()

	t.Run("Garbage Token", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken("not.a.jwt")

		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/user"
	userMock "go-hrms/internal/user/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupAuthService(t *testing.T, now time.Time) (auth.Service, *userMock.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := userMock.NewMockRepository(ctrl)
	svc := auth.NewService(repo, auth.TokenConfig{Secret: testSecret, Expiry: time.Hour}, clock.NewFixed(now))
	return svc, repo
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	password := "password123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	activeUser := &user.User{
		ID:         uuid.New(),
		Name:       "Rina Hartono",
		Email:      "rina@example.com",
		Password:   string(hashed),
		Role:       "hr",
		Department: "People",
		IsActive:   true,
	}

	t.Run("success issues token with role and department", func(t *testing.T) {
		svc, repo := setupAuthService(t, now)
		repo.EXPECT().FindByEmail(ctx, activeUser.Email).Return(activeUser, nil)

		token, resp, err := svc.Login(ctx, activeUser.Email, password)

		assert.NoError(t, err)
		assert.Equal(t, activeUser.ID.String(), resp.ID)
		assert.Equal(t, "hr", resp.Role)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(testSecret), nil })
		assert.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, activeUser.ID.String(), claims["user_id"])
		assert.Equal(t, "hr", claims["role"])
		assert.Equal(t, "People", claims["department"])
		assert.Equal(t, float64(now.Add(time.Hour).Unix()), claims["exp"])
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo := setupAuthService(t, now)
		repo.EXPECT().FindByEmail(ctx, activeUser.Email).Return(activeUser, nil)

		_, _, err := svc.Login(ctx, activeUser.Email, "wrongpass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo := setupAuthService(t, now)
		repo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(&user.User{}, gorm.ErrRecordNotFound)

		_, _, err := svc.Login(ctx, "ghost@example.com", password)

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, repo := setupAuthService(t, now)
		inactive := *activeUser
		inactive.IsActive = false
		repo.EXPECT().FindByEmail(ctx, activeUser.Email).Return(&inactive, nil)

		_, _, err := svc.Login(ctx, activeUser.Email, password)

		assert.ErrorIs(t, err, autherrors.ErrInactiveUser)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		svc, repo := setupAuthService(t, now)
		dbErr := errors.New("connection reset")
		repo.EXPECT().FindByEmail(ctx, activeUser.Email).Return(nil, dbErr)

		_, _, err := svc.Login(ctx, activeUser.Email, password)

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestService_GetMe(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc, repo := setupAuthService(t, time.Now())
		repo.EXPECT().FindByID(ctx, id.String()).Return(&user.User{ID: id, Email: "a@b.c", Role: "employee"}, nil)

		resp, err := svc.GetMe(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "a@b.c", resp.Email)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc, _ := setupAuthService(t, time.Now())

		_, err := svc.GetMe(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo := setupAuthService(t, time.Now())
		repo.EXPECT().FindByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetMe(ctx, id.String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

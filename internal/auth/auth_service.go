package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/shared/clock"
	"go-hrms/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

type service struct {
	users  user.Repository
	tokens TokenConfig
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(users user.Repository, tokens TokenConfig, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{users: users, tokens: tokens, clock: clk, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login unknown email", zap.String("email", email))
			return "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("login find user failed", zap.Error(err))
		return "", AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login wrong password", zap.String("user_id", u.ID.String()))
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", AuthResponse{}, autherrors.ErrInactiveUser
	}

	token, err := s.generateToken(u)
	if err != nil {
		s.logger.Error("login sign token failed", zap.Error(err))
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return token, mapToResponse(u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) generateToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    u.ID.String(),
		"role":       u.Role,
		"department": u.Department,
		"exp":        s.clock.Now().Add(s.tokens.Expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.Secret))
}

func mapToResponse(u *user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

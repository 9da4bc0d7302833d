package employee

import (
	"context"
	"encoding/json"
	"time"

	employeeerrors "go-hrms/internal/employee/errors"
	"go-hrms/internal/rbac"
	"go-hrms/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ApproversCacheKey = "employees:approvers"
	ApproversCacheTTL = 10 * time.Minute
)

// Service is the employee directory the leave workflow resolves callers and recipients through.
//
//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	ResolveByUserID(ctx context.Context, userID string) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	ApproverUserIDs(ctx context.Context) ([]string, error)
	InvalidateApprovers(ctx context.Context)
}

type service struct {
	repo   Repository
	users  user.Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		users:  users,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) ResolveByUserID(ctx context.Context, userID string) (*Employee, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, employeeerrors.ErrInvalidUserID
	}

	e, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("resolve employee by user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return e, nil
}

func (s *service) FindByID(ctx context.Context, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("find employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return e, nil
}

// ApproverUserIDs lists the active hr and admin users. The list is cached in redis and concurrent
// misses share a single database read. Cache failures fall back to the database.
func (s *service) ApproverUserIDs(ctx context.Context) ([]string, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, ApproversCacheKey).Result()
		if err == nil {
			var ids []string
			if json.Unmarshal([]byte(cached), &ids) == nil {
				return ids, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("approvers cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(ApproversCacheKey, func() (interface{}, error) {
		ids, err := s.users.ListActiveIDsByRoles(ctx, rbac.RoleHR, rbac.RoleAdmin)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(ids); err == nil {
				if err := s.rdb.Set(ctx, ApproversCacheKey, payload, ApproversCacheTTL).Err(); err != nil {
					s.logger.Warn("approvers cache write failed", zap.Error(err))
				}
			}
		}
		return ids, nil
	})
	if err != nil {
		s.logger.Error("list approvers failed", zap.Error(err))
		return nil, err
	}

	return v.([]string), nil
}

func (s *service) InvalidateApprovers(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, ApproversCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate approvers cache",
			zap.Error(err),
			zap.String("key", ApproversCacheKey),
		)
	}
}

package rbac

import (
	"sort"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	Can(role string, capability Capability) bool
	CanApproveLeave(role string) bool
	Capabilities(role string) ([]string, error)
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

// NewService loads the built-in role policies into enforcer.
func NewService(enforcer *casbin.SyncedEnforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	s := &service{enforcer: enforcer, logger: l}
	if err := s.loadPolicies(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) loadPolicies() error {
	s.enforcer.ClearPolicy()

	for _, rp := range defaultPolicies {
		if rp.inherits != "" {
			if _, err := s.enforcer.AddGroupingPolicy(rp.role, rp.inherits); err != nil {
				return err
			}
		}
		for _, c := range rp.capabilities {
			if _, err := s.enforcer.AddPolicy(rp.role, c.Resource, c.Action); err != nil {
				return err
			}
		}
	}

	s.logger.Debug("rbac policies loaded", zap.Int("roles", len(defaultPolicies)))
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	if !IsKnownRole(req.Role) {
		s.logger.Warn("rbac enforce unknown role", zap.String("role", req.Role))
		return false, nil
	}

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

// Can is Enforce for a capability, treating evaluation errors as a denial.
func (s *service) Can(role string, capability Capability) bool {
	allowed, err := s.Enforce(EnforceRequest{
		Role:     role,
		Resource: capability.Resource,
		Action:   capability.Action,
	})
	return err == nil && allowed
}

func (s *service) CanApproveLeave(role string) bool {
	return s.Can(role, CapLeaveApprove)
}

func (s *service) Capabilities(role string) ([]string, error) {
	if !IsKnownRole(role) {
		return []string{}, nil
	}

	perms, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		c := Capability{Resource: p[1], Action: p[2]}.String()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

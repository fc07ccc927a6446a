package rbac

import (
	"sort"

	"go-staffhub/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Service is the authorization gate. Every predicate is a pure function of
// the role; unknown or empty roles are denied.
//
//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Allowed(role, resource, action string) bool
	Permissions(role string) []string
	CanDecide(role string) bool
	CanViewAllRequests(role string) bool
	CanManageProjects(role string) bool
	CanViewAllAttendance(role string) bool
}

type service struct {
	enforcer *casbin.SyncedEnforcer
	logger   *zap.Logger
}

// NewService loads policy into a fresh enforcer.
func NewService(policy Policy, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}

	for name, spec := range policy.Roles {
		for _, parent := range spec.Inherits {
			if _, err := enforcer.AddGroupingPolicy(name, parent); err != nil {
				return nil, err
			}
		}
	}
	grants := policy.Grants()
	for _, g := range grants {
		if _, err := enforcer.AddPolicy(g.Role, g.Resource, g.Action); err != nil {
			return nil, err
		}
	}
	l.Info("rbac policy loaded", zap.Int("roles", len(policy.Roles)), zap.Int("grants", len(grants)))

	return &service{enforcer: enforcer, logger: l}, nil
}

// NewDefaultService uses the embedded policy.
func NewDefaultService(logger ...*zap.Logger) (Service, error) {
	policy, err := DefaultPolicy()
	if err != nil {
		return nil, err
	}
	return NewService(policy, logger...)
}

func (s *service) Allowed(role, resource, action string) bool {
	if !IsKnownRole(role) {
		return false
	}
	ok, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", role),
			zap.String("resource", resource),
			zap.String("action", action),
			zap.Error(err),
		)
		return false
	}
	s.logger.Debug("rbac enforce result",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", ok),
	)
	return ok
}

// Permissions lists the effective resource:action grants of role, inherited
// ones included.
func (s *service) Permissions(role string) []string {
	if !IsKnownRole(role) {
		return []string{}
	}
	perms, err := s.enforcer.GetImplicitPermissionsForUser(role)
	if err != nil {
		s.logger.Error("rbac list permissions failed", zap.String("role", role), zap.Error(err))
		return []string{}
	}
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if len(p) < 3 {
			continue
		}
		key := p[1] + ":" + p[2]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (s *service) CanDecide(role string) bool {
	return s.Allowed(role, "leave", "decide")
}

func (s *service) CanViewAllRequests(role string) bool {
	return s.Allowed(role, "leave", "read_all")
}

func (s *service) CanManageProjects(role string) bool {
	return s.Allowed(role, "project", "manage")
}

func (s *service) CanViewAllAttendance(role string) bool {
	return s.Allowed(role, "attendance", "read_all")
}

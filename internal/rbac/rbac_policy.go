package rbac

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Policy is the parsed role catalogue.
type Policy struct {
	Roles map[string]RoleSpec `yaml:"roles"`
}

type RoleSpec struct {
	Inherits    []string `yaml:"inherits"`
	Permissions []string `yaml:"permissions"`
}

// Grant is one resource:action pair held by a role.
type Grant struct {
	Role     string
	Resource string
	Action   string
}

func DefaultPolicy() (Policy, error) {
	return ParsePolicy(defaultPolicy)
}

func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse rbac policy: %w", err)
	}
	if len(p.Roles) == 0 {
		return Policy{}, fmt.Errorf("parse rbac policy: no roles defined")
	}
	for name, spec := range p.Roles {
		for _, parent := range spec.Inherits {
			if _, ok := p.Roles[parent]; !ok {
				return Policy{}, fmt.Errorf("parse rbac policy: role %q inherits unknown role %q", name, parent)
			}
		}
		for _, perm := range spec.Permissions {
			if _, _, ok := splitPermission(perm); !ok {
				return Policy{}, fmt.Errorf("parse rbac policy: role %q has malformed permission %q", name, perm)
			}
		}
	}
	return p, nil
}

// Grants flattens direct grants in a stable order.
func (p Policy) Grants() []Grant {
	names := make([]string, 0, len(p.Roles))
	for name := range p.Roles {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Grant
	for _, name := range names {
		for _, perm := range p.Roles[name].Permissions {
			res, act, _ := splitPermission(perm)
			out = append(out, Grant{Role: name, Resource: res, Action: act})
		}
	}
	return out
}

func splitPermission(perm string) (string, string, bool) {
	res, act, ok := strings.Cut(perm, ":")
	if !ok || res == "" || act == "" {
		return "", "", false
	}
	return res, act, true
}

package dashsdk

import (
	"sort"
	"strings"
)

// Roles allowed to use the dashboard by default.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Policy is a role allow-list. Comparison is case-insensitive after trimming.
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy builds a Policy that admits the given roles.
func NewPolicy(roles ...string) Policy {
	p := Policy{allowed: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		if r = normalizeRole(r); r != "" {
			p.allowed[r] = struct{}{}
		}
	}
	return p
}

// DefaultPolicy admits ADMIN and MANAGER.
func DefaultPolicy() Policy {
	return NewPolicy(RoleAdmin, RoleManager)
}

// Check returns nil when role is admitted and an *UnauthorizedError otherwise.
func (p Policy) Check(role string) error {
	if _, ok := p.allowed[normalizeRole(role)]; ok {
		return nil
	}
	return &UnauthorizedError{Role: role, Allowed: p.Allowed()}
}

// Allowed lists the admitted roles in sorted order.
func (p Policy) Allowed() []string {
	out := make([]string, 0, len(p.allowed))
	for r := range p.allowed {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func normalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

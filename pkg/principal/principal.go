// Package principal carries the authenticated actor through request contexts.
//
// Handlers and services never resolve the current user from globals; the auth
// middleware attaches a Principal once and everything downstream reads it
// from the context.
package principal

import (
	"context"
	"fmt"
)

// Role is the closed set of roles known to the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a role string to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal represents the authenticated actor making a request.
type Principal struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the principal has the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// String returns a representation of the principal for logging.
func (p *Principal) String() string {
	if p == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", p.Email, p.Role)
}

type contextKey string

const principalContextKey contextKey = "principal"

// FromContext retrieves the Principal from the context.
// Returns nil if no principal is present.
func FromContext(ctx context.Context) *Principal {
	if ctx == nil {
		return nil
	}
	p, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey, p)
}

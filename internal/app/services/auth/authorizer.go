package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("Authentication required")
	ErrForbidden       = errors.New("Access denied")
)

// Restricted is implemented by messages only some roles may send.
type Restricted interface {
	AllowedRoles() []string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RoleAuthorizer lets unrestricted messages through and checks the caller's
// role on the rest.
type RoleAuthorizer struct{}

func (RoleAuthorizer) Authorize(ctx context.Context, message any) error {
	r, ok := message.(Restricted)
	if !ok {
		return nil
	}
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	for _, role := range r.AllowedRoles() {
		if strings.EqualFold(p.Role, role) {
			return nil
		}
	}
	return ErrForbidden
}

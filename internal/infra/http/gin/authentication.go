package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/services/auth"
)

const (
	principalContextKey  = "courtly.principal"
	tokenErrorContextKey = "courtly.token_error"
)

type principal struct {
	ID    string
	Email string
	Role  string
}

func (p principal) HasRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if strings.EqualFold(p.Role, r) {
			return true
		}
	}
	return false
}

// AuthMiddleware resolves a bearer token into a principal. Requests without a
// token stay anonymous; a bad token only matters on endpoints requiring a role.
type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.Resolve(token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Set(tokenErrorContextKey, err)
		c.Next()
		return
	}
	setPrincipal(c, principal{ID: resolved.ID, Email: resolved.Email, Role: resolved.Role})
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), resolved))
	c.Next()
}

func setPrincipal(c *gin.Context, p principal) {
	c.Set(principalContextKey, p)
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

// requireRole answers 401 or 403 itself and reports false when the caller
// may not continue. No roles means any authenticated principal.
func requireRole(c *gin.Context, roles ...string) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		message := "Authentication required"
		if _, bad := c.Get(tokenErrorContextKey); bad {
			message = auth.ErrInvalidToken.Error()
		}
		respond(c, http.StatusUnauthorized, message, nil)
		return principal{}, false
	}
	if !p.HasRole(roles...) {
		respond(c, http.StatusForbidden, "Access denied", nil)
		return principal{}, false
	}
	return p, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

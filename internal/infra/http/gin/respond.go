package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/services/auth"
	"courtly/internal/domain/shared/errs"
)

const msgInvalidBody = "Invalid request body"

// respond writes the envelope every endpoint shares. Payload keys sit next to
// success and message.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": status < http.StatusBadRequest, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps err to its status and logs the failure.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if logger != nil {
		attrs := []any{"status", status, "path", c.FullPath(), "error", err}
		if p, ok := currentPrincipal(c); ok {
			attrs = append(attrs, "principal_id", p.ID)
		}
		logger.Error("request failed", attrs...)
	}
	respond(c, status, errs.Message(err), nil)
}

func respondBadBody(c *gin.Context) {
	respond(c, http.StatusBadRequest, msgInvalidBody, nil)
}

func respondUnavailable(c *gin.Context, what string) {
	respond(c, http.StatusServiceUnavailable, what+" unavailable", nil)
}

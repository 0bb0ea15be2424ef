package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	authsvc "courtly/internal/app/services/auth"
	"courtly/internal/domain/accounts"
)

type AccountHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Profile(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

// AccountHandler serves register, login and profile for one account role.
type AccountHandler struct {
	Service *authsvc.Service
	Role    accounts.Role
	Logger  *slog.Logger
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	Password string `json:"password"`
}

type updateAccountRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone_number"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AccountHandler) Register(c *gin.Context) {
	if h.Service == nil {
		respondUnavailable(c, "auth service")
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Role:     h.Role,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Registered successfully", gin.H{"token": result.Token, "expires_at": result.ExpiresAt, string(h.Role): result.Account})
}

func (h AccountHandler) Login(c *gin.Context) {
	if h.Service == nil {
		respondUnavailable(c, "auth service")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Role:     string(h.Role),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", gin.H{"token": result.Token, "expires_at": result.ExpiresAt, string(h.Role): result.Account})
}

func (h AccountHandler) Profile(c *gin.Context) {
	p, ok := requireRole(c, string(h.Role))
	if !ok {
		return
	}
	if h.Service == nil {
		respondUnavailable(c, "auth service")
		return
	}
	account, err := h.Service.Profile(c.Request.Context(), authsvc.Principal{ID: p.ID, Email: p.Email, Role: p.Role})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{string(h.Role): account})
}

func (h AccountHandler) UpdateProfile(c *gin.Context) {
	p, ok := requireRole(c, string(h.Role))
	if !ok {
		return
	}
	if h.Service == nil {
		respondUnavailable(c, "auth service")
		return
	}
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	account, err := h.Service.UpdateProfile(c.Request.Context(), authsvc.Principal{ID: p.ID, Email: p.Email, Role: p.Role}, accounts.ProfilePatch{Name: req.Name, Phone: req.Phone})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", gin.H{string(h.Role): account})
}

var _ AccountHTTP = AccountHandler{}

package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	lessorapp "courtly/internal/app/handlers/lessors"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
	domainlessors "courtly/internal/domain/lessors"
)

type LessorHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Profile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	SetLocation(c *gin.Context)
	Locations(c *gin.Context)
	Get(c *gin.Context)
}

type LessorHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Auth     *authsvc.Service
	Logger   *slog.Logger
}

type addressRequest struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
}

func (a addressRequest) toDomain() domainlessors.Address {
	return domainlessors.Address{
		Street: strings.TrimSpace(a.Street),
		City:   strings.TrimSpace(a.City),
		State:  strings.TrimSpace(a.State),
	}
}

type registerLessorRequest struct {
	FirstName       string         `json:"first_name"`
	LastName        string         `json:"last_name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone_number"`
	Address         addressRequest `json:"address"`
	Password        string         `json:"password"`
	ConfirmPassword string         `json:"confirm_password"`
	SportCenterName string         `json:"sportcenter_name"`
	Description     string         `json:"sportcenter_description"`
	Open            string         `json:"open"`
	Close           string         `json:"close"`
}

type updateProfileRequest struct {
	FirstName       *string         `json:"first_name"`
	LastName        *string         `json:"last_name"`
	Phone           *string         `json:"phone_number"`
	SportCenterName *string         `json:"sportcenter_name"`
	Description     *string         `json:"sportcenter_description"`
	Logo            *string         `json:"logo"`
	Address         *addressRequest `json:"address"`
	Open            *string         `json:"open"`
	Close           *string         `json:"close"`
	TimeAvailable   *bool           `json:"time_available"`
}

type locationRequest struct {
	Lng *float64 `json:"lng"`
	Lat *float64 `json:"lat"`
}

func (h LessorHandler) Register(c *gin.Context) {
	var req registerLessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.RegisterLessorCommand{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address.toDomain(),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		SportCenterName: req.SportCenterName,
		Description:     req.Description,
		Open:            req.Open,
		Close:           req.Close,
	}
	lessor, err := commands.Dispatch[lessorapp.RegisterLessorCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Lessor registered successfully", gin.H{"lessor": lessor})
}

func (h LessorHandler) Login(c *gin.Context) {
	if h.Auth == nil {
		respondUnavailable(c, "auth service")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	result, err := h.Auth.Login(c.Request.Context(), authsvc.LoginParams{
		Role:     authsvc.RoleLessor,
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Login successful", gin.H{"token": result.Token, "expires_at": result.ExpiresAt, "lessor": result.Lessor})
}

func (h LessorHandler) Profile(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	lessor, err := queries.Ask[lessorapp.GetProfileQuery, dto.Lessor](c.Request.Context(), h.Queries, lessorapp.GetProfileQuery{Email: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"lessor": lessor})
}

func (h LessorHandler) UpdateProfile(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.UpdateProfileCommand{
		Email:           p.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		SportCenterName: req.SportCenterName,
		Description:     req.Description,
		Logo:            req.Logo,
		Open:            req.Open,
		Close:           req.Close,
		TimeAvailable:   req.TimeAvailable,
	}
	if req.Address != nil {
		addr := req.Address.toDomain()
		cmd.Address = &addr
	}
	lessor, err := commands.Dispatch[lessorapp.UpdateProfileCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Lessor updated successfully", gin.H{"lessor": lessor})
}

func (h LessorHandler) SetLocation(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Lng == nil || req.Lat == nil {
		respond(c, http.StatusBadRequest, "Invalid latitude or longitude", nil)
		return
	}
	cmd := lessorapp.SetLocationCommand{Email: p.Email, Lng: *req.Lng, Lat: *req.Lat}
	lessor, err := commands.Dispatch[lessorapp.SetLocationCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Location updated successfully", gin.H{"lessor": lessor})
}

func (h LessorHandler) Locations(c *gin.Context) {
	locations, err := queries.Ask[lessorapp.ListLocationsQuery, []dto.LessorLocation](c.Request.Context(), h.Queries, lessorapp.ListLocationsQuery{})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"locations": locations})
}

// Get is the public lessor page.
func (h LessorHandler) Get(c *gin.Context) {
	lessor, err := queries.Ask[lessorapp.GetLessorQuery, dto.Lessor](c.Request.Context(), h.Queries, lessorapp.GetLessorQuery{LessorID: c.Param("lessorID")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"lessor": lessor})
}

var _ LessorHTTP = LessorHandler{}

package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	lessorapp "courtly/internal/app/handlers/lessors"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
)

type ArenaHTTP interface {
	ListFacilities(c *gin.Context)
	AddFacility(c *gin.Context)
	UpdateFacility(c *gin.Context)
	RemoveFacility(c *gin.Context)
	ListCourts(c *gin.Context)
	AddCourt(c *gin.Context)
	GetCourt(c *gin.Context)
	UpdateCourt(c *gin.Context)
	RemoveCourt(c *gin.Context)
	AllCourts(c *gin.Context)
	UploadImage(c *gin.Context)
}

// ArenaHandler manages the facilities and courts of the signed-in lessor.
type ArenaHandler struct {
	Commands       commands.Bus
	Queries        queries.Bus
	Logger         *slog.Logger
	MaxImageMemory int64
}

type facilityRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
}

type courtRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Image       string   `json:"image"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h ArenaHandler) ListFacilities(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	list, err := queries.Ask[lessorapp.ListFacilitiesQuery, []dto.Facility](c.Request.Context(), h.Queries, lessorapp.ListFacilitiesQuery{Email: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"facilities": list})
}

func (h ArenaHandler) AddFacility(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.AddFacilityCommand{
		Email:       p.Email,
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Price:       deref(req.Price),
		Image:       deref(req.Image),
	}
	facility, err := commands.Dispatch[lessorapp.AddFacilityCommand, *dto.Facility](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Facility added successfully", gin.H{"facility": facility})
}

func (h ArenaHandler) UpdateFacility(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req facilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.UpdateFacilityCommand{
		Email:       p.Email,
		FacilityID:  c.Param("facilityID"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	}
	facility, err := commands.Dispatch[lessorapp.UpdateFacilityCommand, *dto.Facility](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Facility updated successfully", gin.H{"facility": facility})
}

func (h ArenaHandler) RemoveFacility(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	cmd := lessorapp.RemoveFacilityCommand{Email: p.Email, FacilityID: c.Param("facilityID")}
	lessor, err := commands.Dispatch[lessorapp.RemoveFacilityCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Facility deleted successfully", gin.H{"facilities": lessor.Facilities})
}

func (h ArenaHandler) ListCourts(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	q := lessorapp.ListCourtsQuery{Email: p.Email, FacilityID: c.Param("facilityID")}
	list, err := queries.Ask[lessorapp.ListCourtsQuery, []dto.Court](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"courts": list})
}

func (h ArenaHandler) AddCourt(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req courtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	images := req.Images
	if len(images) == 0 && req.Image != "" {
		images = []string{req.Image}
	}
	cmd := lessorapp.AddCourtCommand{
		Email:       p.Email,
		FacilityID:  c.Param("facilityID"),
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Images:      images,
	}
	court, err := commands.Dispatch[lessorapp.AddCourtCommand, *dto.Court](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Court added successfully", gin.H{"court": court})
}

func (h ArenaHandler) GetCourt(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	q := lessorapp.GetCourtQuery{Email: p.Email, FacilityID: c.Param("facilityID"), CourtID: c.Param("courtID")}
	court, err := queries.Ask[lessorapp.GetCourtQuery, dto.Court](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"court": court})
}

func (h ArenaHandler) UpdateCourt(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req courtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := lessorapp.UpdateCourtCommand{
		Email:       p.Email,
		FacilityID:  c.Param("facilityID"),
		CourtID:     c.Param("courtID"),
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		AppendImage: req.Image,
	}
	court, err := commands.Dispatch[lessorapp.UpdateCourtCommand, *dto.Court](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Court updated successfully", gin.H{"court": court})
}

func (h ArenaHandler) RemoveCourt(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	cmd := lessorapp.RemoveCourtCommand{Email: p.Email, FacilityID: c.Param("facilityID"), CourtID: c.Param("courtID")}
	lessor, err := commands.Dispatch[lessorapp.RemoveCourtCommand, *dto.Lessor](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Court deleted successfully", gin.H{"facilities": lessor.Facilities})
}

func (h ArenaHandler) AllCourts(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	list, err := queries.Ask[lessorapp.AllCourtsQuery, []dto.CourtWithFacility](c.Request.Context(), h.Queries, lessorapp.AllCourtsQuery{Email: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"courts": list})
}

// UploadImage accepts a multipart "image" file. Optional form fields target,
// facility_id and court_id attach the stored URL to the profile.
func (h ArenaHandler) UploadImage(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	if h.MaxImageMemory > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageMemory)
	}
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.Logger, lessorapp.ErrImageRequired)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.Logger, lessorapp.ErrImageRequired)
		return
	}
	defer file.Close()

	cmd := lessorapp.UploadImageCommand{
		Email:       p.Email,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Target:      lessorapp.ImageTarget(c.PostForm("target")),
		FacilityID:  c.PostForm("facility_id"),
		CourtID:     c.PostForm("court_id"),
	}
	uploaded, err := commands.Dispatch[lessorapp.UploadImageCommand, *dto.UploadedImage](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Image uploaded successfully", gin.H{"image": uploaded})
}

var _ ArenaHTTP = ArenaHandler{}

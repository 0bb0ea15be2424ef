package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	availabilityapp "courtly/internal/app/handlers/availability"
	bookingapp "courtly/internal/app/handlers/booking"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
	domainbooking "courtly/internal/domain/booking"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	ListForLessor(c *gin.Context)
	FilterByStatus(c *gin.Context)
	SetStatus(c *gin.Context)
	ListForUser(c *gin.Context)
}

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type outsideUserRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type createBookingRequest struct {
	User        string              `json:"user"`
	OutsideUser *outsideUserRequest `json:"outside_user"`
	Lessor      string              `json:"lessor"`
	Facility    string              `json:"facility"`
	Court       string              `json:"court"`
	Date        string              `json:"date"`
	StartTime   string              `json:"start_time"`
	EndTime     string              `json:"end_time"`
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

// Create books a court. A signed-in user books for themselves; a signed-in
// lessor books walk-ins at their own center.
func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := availabilityapp.ParseDate(req.Date)
		if err != nil {
			respondError(c, h.Logger, err)
			return
		}
		date = parsed
	}
	cmd := bookingapp.CreateBookingCommand{
		BookingID:       uuid.NewString(),
		UserID:          req.User,
		LessorID:        req.Lessor,
		Facility:        req.Facility,
		Court:           req.Court,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	if req.OutsideUser != nil {
		cmd.OutsideUser = &domainbooking.OutsideUser{Name: req.OutsideUser.Name, PhoneNumber: req.OutsideUser.PhoneNumber}
	}
	if p, ok := currentPrincipal(c); ok {
		switch p.Role {
		case authsvc.RoleUser:
			// Users only book for themselves; the body's user field is ignored.
			cmd.UserID = p.ID
			cmd.OutsideUser = nil
		case authsvc.RoleLessor:
			if cmd.LessorID == "" {
				cmd.LessorID = p.ID
			}
		}
	}
	booking, err := commands.Dispatch[bookingapp.CreateBookingCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Booking saved successfully", gin.H{"booking": booking})
}

func (h BookingHandler) ListForLessor(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	upcoming, _ := strconv.ParseBool(c.Query("upcoming"))
	q := bookingapp.ListLessorBookingsQuery{LessorEmail: p.Email, Page: page, Limit: limit, Upcoming: upcoming}
	result, err := queries.Ask[bookingapp.ListLessorBookingsQuery, dto.BookingPage](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"result": result})
}

func (h BookingHandler) FilterByStatus(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	q := bookingapp.FilterBookingsByStatusQuery{LessorEmail: p.Email, Status: c.Query("status")}
	list, err := queries.Ask[bookingapp.FilterBookingsByStatusQuery, []dto.Booking](c.Request.Context(), h.Queries, q)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"bookings": list})
}

func (h BookingHandler) SetStatus(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := bookingapp.SetBookingStatusCommand{BookingID: c.Param("bookingID"), Status: req.Status, LessorEmail: p.Email}
	booking, err := commands.Dispatch[bookingapp.SetBookingStatusCommand, *dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Booking status updated", gin.H{"booking": booking})
}

func (h BookingHandler) ListForUser(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleUser)
	if !ok {
		return
	}
	result, err := queries.Ask[bookingapp.ListUserBookingsQuery, dto.UserBookings](c.Request.Context(), h.Queries, bookingapp.ListUserBookingsQuery{UserEmail: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"result": result})
}

var _ BookingHTTP = BookingHandler{}

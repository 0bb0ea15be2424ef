package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/dto"
	availabilityapp "courtly/internal/app/handlers/availability"
	"courtly/internal/app/queries"
)

type AvailabilityHTTP interface {
	Slots(c *gin.Context)
}

type AvailabilityHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

func (h AvailabilityHandler) Slots(c *gin.Context) {
	date, err := availabilityapp.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	query := availabilityapp.GetAvailabilityQuery{
		LessorID: c.Param("lessorID"),
		Facility: c.Query("facility"),
		Court:    c.Query("court"),
		Date:     date,
	}
	slots, err := queries.Ask[availabilityapp.GetAvailabilityQuery, []dto.AvailabilitySlot](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if slots == nil {
		slots = []dto.AvailabilitySlot{}
	}
	respond(c, http.StatusOK, "Success", gin.H{"date": date.Format("2006-01-02"), "slots": slots})
}

var _ AvailabilityHTTP = AvailabilityHandler{}

package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	paymentapp "courtly/internal/app/handlers/payments"
	"courtly/internal/app/queries"
	authsvc "courtly/internal/app/services/auth"
)

type PaymentHTTP interface {
	Record(c *gin.Context)
	ListForLessor(c *gin.Context)
}

type PaymentHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type recordPaymentRequest struct {
	Lessor   string  `json:"lessor"`
	Booking  string  `json:"booking"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
	Status   string  `json:"status"`
}

func (h PaymentHandler) Record(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleUser)
	if !ok {
		return
	}
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c)
		return
	}
	cmd := paymentapp.RecordPaymentCommand{
		UserEmail:       p.Email,
		LessorID:        req.Lessor,
		BookingID:       req.Booking,
		Currency:        req.Currency,
		Amount:          req.Amount,
		Status:          req.Status,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	payment, err := commands.Dispatch[paymentapp.RecordPaymentCommand, *dto.Payment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, "Payment recorded successfully", gin.H{"payment": payment})
}

func (h PaymentHandler) ListForLessor(c *gin.Context) {
	p, ok := requireRole(c, authsvc.RoleLessor)
	if !ok {
		return
	}
	list, err := queries.Ask[paymentapp.ListLessorPaymentsQuery, []dto.Payment](c.Request.Context(), h.Queries, paymentapp.ListLessorPaymentsQuery{LessorEmail: p.Email})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, "Success", gin.H{"payments": list})
}

var _ PaymentHTTP = PaymentHandler{}

// Package wiring registers every handler on the buses and builds the HTTP
// handler set. Storage and delivery adapters are chosen by the caller.
package wiring

import (
	"errors"
	"log/slog"
	"time"

	gin "github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"courtly/internal/app/commands"
	"courtly/internal/app/dto"
	accountapp "courtly/internal/app/handlers/accounts"
	availabilityapp "courtly/internal/app/handlers/availability"
	bookingapp "courtly/internal/app/handlers/booking"
	commentapp "courtly/internal/app/handlers/comments"
	lessorapp "courtly/internal/app/handlers/lessors"
	paymentapp "courtly/internal/app/handlers/payments"
	reportapp "courtly/internal/app/handlers/reports"
	"courtly/internal/app/middleware"
	appoutbox "courtly/internal/app/outbox"
	"courtly/internal/app/policies"
	"courtly/internal/app/queries"
	"courtly/internal/app/services/auth"
	"courtly/internal/app/uow"
	"courtly/internal/domain/accounts"
	"courtly/internal/domain/reporting"
	ginserver "courtly/internal/infra/http/gin"
)

type Deps struct {
	Logger      *slog.Logger
	UoW         uow.UoWFactory
	Reports     reporting.Reader
	Outbox      appoutbox.Outbox
	// Idempotency is optional; without it Idempotency-Key headers are ignored.
	Idempotency middleware.IdempotencyStore
	Passwords   policies.PasswordHasher
	Tokens      auth.TokenIssuer
	Images      policies.ImageStore
	Tracer      trace.Tracer
	Clock       func() time.Time
	// Cache is applied to public read routes when set.
	Cache gin.HandlerFunc
	// MaxImageBytes caps multipart uploads; zero means no cap.
	MaxImageBytes int64
}

type Application struct {
	Commands commands.Bus
	Queries  queries.Bus
	Auth     *auth.Service
	Handlers ginserver.Handlers
}

func (d Deps) validate() error {
	switch {
	case d.UoW == nil:
		return errors.New("wiring: unit of work factory required")
	case d.Reports == nil:
		return errors.New("wiring: reporting reader required")
	case d.Outbox == nil:
		return errors.New("wiring: outbox required")
	case d.Passwords == nil:
		return errors.New("wiring: password hasher required")
	case d.Tokens == nil:
		return errors.New("wiring: token issuer required")
	case d.Images == nil:
		return errors.New("wiring: image store required")
	}
	return nil
}

// Build registers handlers, wraps the buses in their middleware chains and
// returns the HTTP handler set bound to them.
func Build(d Deps) (Application, error) {
	if err := d.validate(); err != nil {
		return Application{}, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := d.Tracer
	if tracer == nil {
		tracer = otel.Tracer("courtly/app")
	}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	registerCommands(commandBus, d, encoder)
	queryBus := queries.NewInMemoryBus()
	registerQueries(queryBus, d)

	var idempotency middleware.CommandMiddleware
	if d.Idempotency != nil {
		idempotency = middleware.Idempotency(d.Idempotency, nil)
	}
	cmds := middleware.ChainCommands(
		commandBus,
		middleware.CommandTracing(tracer),
		middleware.Authorization(auth.RoleAuthorizer{}, logger),
		middleware.Validation(middleware.MessageValidator{}),
		idempotency,
		middleware.OutboxFlush(d.Outbox, logger),
		middleware.Transaction(d.UoW, nil),
	)
	qs := middleware.ChainQueries(
		queryBus,
		middleware.QueryTracing(tracer),
		middleware.QueryAuthorization(auth.RoleAuthorizer{}, logger),
		middleware.QueryValidation(middleware.MessageValidator{}),
	)

	authService := &auth.Service{
		UoWFactory: d.UoW,
		Passwords:  d.Passwords,
		Tokens:     d.Tokens,
		Logger:     logger,
		Clock:      d.Clock,
	}

	return Application{
		Commands: cmds,
		Queries:  qs,
		Auth:     authService,
		Handlers: ginserver.Handlers{
			Users:          ginserver.AccountHandler{Service: authService, Role: accounts.RoleUser, Logger: logger},
			Moderators:     ginserver.AccountHandler{Service: authService, Role: accounts.RoleModerator, Logger: logger},
			Lessor:         ginserver.LessorHandler{Commands: cmds, Queries: qs, Auth: authService, Logger: logger},
			Arena:          ginserver.ArenaHandler{Commands: cmds, Queries: qs, Logger: logger, MaxImageMemory: d.MaxImageBytes},
			Booking:        ginserver.BookingHandler{Commands: cmds, Queries: qs, Logger: logger},
			Availability:   ginserver.AvailabilityHandler{Queries: qs, Logger: logger},
			Comment:        ginserver.CommentHandler{Commands: cmds, Queries: qs, Logger: logger},
			Moderation:     ginserver.ModerationHandler{Commands: cmds, Queries: qs, Logger: logger},
			Payment:        ginserver.PaymentHandler{Commands: cmds, Queries: qs, Logger: logger},
			Report:         ginserver.ReportHandler{Queries: qs, Logger: logger},
			AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
			Cache:          d.Cache,
		},
	}, nil
}

func registerCommands(bus *commands.InMemoryBus, d Deps, encoder appoutbox.EventEncoder) {
	commands.RegisterHandler[bookingapp.CreateBookingCommand, *dto.Booking](bus, &bookingapp.CreateBookingHandler{UoWFactory: d.UoW, Encoder: encoder, Clock: d.Clock})
	commands.RegisterHandler[bookingapp.SetBookingStatusCommand, *dto.Booking](bus, &bookingapp.SetBookingStatusHandler{UoWFactory: d.UoW, Encoder: encoder, Clock: d.Clock})

	commands.RegisterHandler[lessorapp.RegisterLessorCommand, *dto.Lessor](bus, &lessorapp.RegisterLessorHandler{UoWFactory: d.UoW, Passwords: d.Passwords, Encoder: encoder, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.UpdateProfileCommand, *dto.Lessor](bus, &lessorapp.UpdateProfileHandler{UoWFactory: d.UoW, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.SetLocationCommand, *dto.Lessor](bus, &lessorapp.SetLocationHandler{UoWFactory: d.UoW, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.SetLessorStatusCommand, *dto.Lessor](bus, &lessorapp.SetLessorStatusHandler{UoWFactory: d.UoW, Encoder: encoder, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.ResetLessorPasswordCommand, *dto.Lessor](bus, &lessorapp.ResetLessorPasswordHandler{UoWFactory: d.UoW, Passwords: d.Passwords, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.RemoveLessorCommand, *dto.Lessor](bus, &lessorapp.RemoveLessorHandler{UoWFactory: d.UoW, Encoder: encoder, Clock: d.Clock})
	commands.RegisterHandler[lessorapp.UploadImageCommand, *dto.UploadedImage](bus, &lessorapp.UploadImageHandler{UoWFactory: d.UoW, Images: d.Images, Clock: d.Clock})

	arena := &lessorapp.ArenaHandler{UoWFactory: d.UoW, Clock: d.Clock}
	commands.RegisterHandler[lessorapp.AddFacilityCommand, *dto.Facility](bus, commands.HandlerFunc[lessorapp.AddFacilityCommand, *dto.Facility](arena.AddFacility))
	commands.RegisterHandler[lessorapp.UpdateFacilityCommand, *dto.Facility](bus, commands.HandlerFunc[lessorapp.UpdateFacilityCommand, *dto.Facility](arena.UpdateFacility))
	commands.RegisterHandler[lessorapp.RemoveFacilityCommand, *dto.Lessor](bus, commands.HandlerFunc[lessorapp.RemoveFacilityCommand, *dto.Lessor](arena.RemoveFacility))
	commands.RegisterHandler[lessorapp.AddCourtCommand, *dto.Court](bus, commands.HandlerFunc[lessorapp.AddCourtCommand, *dto.Court](arena.AddCourt))
	commands.RegisterHandler[lessorapp.UpdateCourtCommand, *dto.Court](bus, commands.HandlerFunc[lessorapp.UpdateCourtCommand, *dto.Court](arena.UpdateCourt))
	commands.RegisterHandler[lessorapp.RemoveCourtCommand, *dto.Lessor](bus, commands.HandlerFunc[lessorapp.RemoveCourtCommand, *dto.Lessor](arena.RemoveCourt))

	commands.RegisterHandler[commentapp.PostCommentCommand, *dto.Comment](bus, &commentapp.PostCommentHandler{UoWFactory: d.UoW, Clock: d.Clock})
	commands.RegisterHandler[commentapp.SetCommentStatusCommand, *dto.Comment](bus, &commentapp.SetCommentStatusHandler{UoWFactory: d.UoW, Clock: d.Clock})

	commands.RegisterHandler[paymentapp.RecordPaymentCommand, *dto.Payment](bus, &paymentapp.RecordPaymentHandler{UoWFactory: d.UoW, Encoder: encoder, Clock: d.Clock})
}

func registerQueries(bus *queries.InMemoryBus, d Deps) {
	queries.RegisterHandler[availabilityapp.GetAvailabilityQuery, []dto.AvailabilitySlot](bus, &availabilityapp.GetAvailabilityHandler{UoWFactory: d.UoW, Clock: d.Clock})

	queries.RegisterHandler[bookingapp.ListLessorBookingsQuery, dto.BookingPage](bus, &bookingapp.ListLessorBookingsHandler{UoWFactory: d.UoW, Clock: d.Clock})
	queries.RegisterHandler[bookingapp.FilterBookingsByStatusQuery, []dto.Booking](bus, &bookingapp.FilterBookingsByStatusHandler{UoWFactory: d.UoW, Clock: d.Clock})
	queries.RegisterHandler[bookingapp.ListUserBookingsQuery, dto.UserBookings](bus, &bookingapp.ListUserBookingsHandler{UoWFactory: d.UoW, Clock: d.Clock})

	profile := &lessorapp.ProfileQueryHandler{UoWFactory: d.UoW}
	queries.RegisterHandler[lessorapp.GetProfileQuery, dto.Lessor](bus, queries.HandlerFunc[lessorapp.GetProfileQuery, dto.Lessor](profile.HandleProfile))
	queries.RegisterHandler[lessorapp.GetLessorQuery, dto.Lessor](bus, queries.HandlerFunc[lessorapp.GetLessorQuery, dto.Lessor](profile.HandleLessor))
	directory := &lessorapp.DirectoryHandler{UoWFactory: d.UoW}
	queries.RegisterHandler[lessorapp.ListLessorsQuery, []dto.Lessor](bus, queries.HandlerFunc[lessorapp.ListLessorsQuery, []dto.Lessor](directory.HandleList))
	queries.RegisterHandler[lessorapp.ListLocationsQuery, []dto.LessorLocation](bus, queries.HandlerFunc[lessorapp.ListLocationsQuery, []dto.LessorLocation](directory.HandleLocations))
	arena := &lessorapp.ArenaQueryHandler{UoWFactory: d.UoW}
	queries.RegisterHandler[lessorapp.ListFacilitiesQuery, []dto.Facility](bus, queries.HandlerFunc[lessorapp.ListFacilitiesQuery, []dto.Facility](arena.ListFacilities))
	queries.RegisterHandler[lessorapp.ListCourtsQuery, []dto.Court](bus, queries.HandlerFunc[lessorapp.ListCourtsQuery, []dto.Court](arena.ListCourts))
	queries.RegisterHandler[lessorapp.AllCourtsQuery, []dto.CourtWithFacility](bus, queries.HandlerFunc[lessorapp.AllCourtsQuery, []dto.CourtWithFacility](arena.AllCourts))
	queries.RegisterHandler[lessorapp.GetCourtQuery, dto.Court](bus, queries.HandlerFunc[lessorapp.GetCourtQuery, dto.Court](arena.GetCourt))

	queries.RegisterHandler[accountapp.ListUsersQuery, []dto.Account](bus, &accountapp.ListUsersHandler{UoWFactory: d.UoW})

	comments := &commentapp.QueryHandler{UoWFactory: d.UoW}
	queries.RegisterHandler[commentapp.ListCommentsQuery, []dto.Comment](bus, queries.HandlerFunc[commentapp.ListCommentsQuery, []dto.Comment](comments.List))
	queries.RegisterHandler[commentapp.LessorCommentsQuery, []dto.Comment](bus, queries.HandlerFunc[commentapp.LessorCommentsQuery, []dto.Comment](comments.ForLessor))

	queries.RegisterHandler[paymentapp.ListLessorPaymentsQuery, []dto.Payment](bus, &paymentapp.ListLessorPaymentsHandler{UoWFactory: d.UoW})

	reports := &reportapp.Handler{UoWFactory: d.UoW, Reports: d.Reports}
	queries.RegisterHandler[reportapp.RankLessorsQuery, []dto.RankedLessor](bus, queries.HandlerFunc[reportapp.RankLessorsQuery, []dto.RankedLessor](reports.Rank))
	queries.RegisterHandler[reportapp.NearestLessorQuery, dto.RankedLessor](bus, queries.HandlerFunc[reportapp.NearestLessorQuery, dto.RankedLessor](reports.Nearest))
	queries.RegisterHandler[reportapp.MonthlyCountsQuery, dto.MonthlyReport](bus, queries.HandlerFunc[reportapp.MonthlyCountsQuery, dto.MonthlyReport](reports.Monthly))
	queries.RegisterHandler[reportapp.LessorIncomeQuery, dto.Income](bus, queries.HandlerFunc[reportapp.LessorIncomeQuery, dto.Income](reports.Income))
	queries.RegisterHandler[reportapp.RatingSummaryQuery, dto.RatingSummary](bus, queries.HandlerFunc[reportapp.RatingSummaryQuery, dto.RatingSummary](reports.Rating))
}

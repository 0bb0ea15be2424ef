package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"courtly/internal/infra/config"
	"courtly/internal/infra/obs"
)

type Handlers struct {
	Users          AccountHTTP
	Moderators     AccountHTTP
	Lessor         LessorHTTP
	Arena          ArenaHTTP
	Booking        BookingHTTP
	Availability   AvailabilityHTTP
	Comment        CommentHTTP
	Moderation     ModerationHTTP
	Payment        PaymentHTTP
	Report         ReportHTTP
	AuthMiddleware gin.HandlerFunc
	// Cache wraps public read endpoints; nil serves them uncached.
	Cache gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without binding an address.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.Tracing())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"Content-Disposition",
			"X-Request-ID",
			"X-Cache",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	cached := h.Cache
	if cached == nil {
		cached = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api/v1")
	if h.Users != nil {
		api.POST("/users/register", h.Users.Register)
		api.POST("/users/login", h.Users.Login)
		api.GET("/users/profile", h.Users.Profile)
	}
	if h.Moderators != nil {
		api.POST("/moderators/register", h.Moderators.Register)
		api.POST("/moderators/login", h.Moderators.Login)
		api.GET("/moderators/profile", h.Moderators.Profile)
		api.PUT("/moderators/profile", h.Moderators.UpdateProfile)
	}
	if h.Lessor != nil {
		api.POST("/lessors/register", h.Lessor.Register)
		api.POST("/lessors/login", h.Lessor.Login)
		api.GET("/lessors/profile", h.Lessor.Profile)
		api.PUT("/lessors/profile", h.Lessor.UpdateProfile)
		api.PUT("/lessors/location", h.Lessor.SetLocation)
		api.GET("/lessors/locations", cached, h.Lessor.Locations)
		api.GET("/lessors/:lessorID", cached, h.Lessor.Get)
	}
	if h.Arena != nil {
		facilities := api.Group("/lessors/facilities")
		facilities.GET("", h.Arena.ListFacilities)
		facilities.POST("", h.Arena.AddFacility)
		facilities.PUT("/:facilityID", h.Arena.UpdateFacility)
		facilities.DELETE("/:facilityID", h.Arena.RemoveFacility)
		facilities.GET("/:facilityID/courts", h.Arena.ListCourts)
		facilities.POST("/:facilityID/courts", h.Arena.AddCourt)
		facilities.GET("/:facilityID/courts/:courtID", h.Arena.GetCourt)
		facilities.PUT("/:facilityID/courts/:courtID", h.Arena.UpdateCourt)
		facilities.DELETE("/:facilityID/courts/:courtID", h.Arena.RemoveCourt)
		api.GET("/lessors/courts", h.Arena.AllCourts)
		api.POST("/lessors/images", h.Arena.UploadImage)
	}
	if h.Availability != nil {
		api.GET("/lessors/:lessorID/time-slots/availability", h.Availability.Slots)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/lessor", h.Booking.ListForLessor)
		api.GET("/bookings/status", h.Booking.FilterByStatus)
		api.PUT("/bookings/:bookingID/status", h.Booking.SetStatus)
		api.GET("/users/bookings", h.Booking.ListForUser)
	}
	if h.Comment != nil {
		api.POST("/comments", h.Comment.Post)
		api.GET("/lessors/:lessorID/comments", cached, h.Comment.ForLessor)
	}
	if h.Moderation != nil {
		mod := api.Group("/moderators")
		mod.GET("/lessors", h.Moderation.Lessors)
		mod.PUT("/lessors/:lessorID/status", h.Moderation.SetLessorStatus)
		mod.PUT("/lessors/:lessorID/password", h.Moderation.ResetLessorPassword)
		mod.DELETE("/lessors/:lessorID", h.Moderation.RemoveLessor)
		mod.GET("/users", h.Moderation.Users)
		mod.GET("/comments", h.Moderation.Comments)
		mod.PUT("/comments/:commentID/status", h.Moderation.SetCommentStatus)
	}
	if h.Payment != nil {
		api.POST("/payments", h.Payment.Record)
		api.GET("/payments/lessor", h.Payment.ListForLessor)
	}
	if h.Report != nil {
		api.GET("/lessors/ranking", cached, h.Report.Ranking)
		api.GET("/lessors/nearest", cached, h.Report.Nearest)
		api.GET("/lessors/:lessorID/rating", cached, h.Report.Rating)
		api.GET("/reports/monthly", h.Report.Monthly)
		api.GET("/reports/monthly/export", h.Report.MonthlyExport)
		api.GET("/reports/income", h.Report.Income)
	}

	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

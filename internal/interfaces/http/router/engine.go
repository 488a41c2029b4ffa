package router

import (
	"net/http"

	"github.com/fieldops/backend/internal/domain/access"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallbackPath is where the bill gateway posts payment notifications.
// It sits outside the authenticated API group.
const CallbackPath = "/api/v1/payments/callback"

// DefaultBodyLimit caps request bodies when Config.BodyLimit is zero
const DefaultBodyLimit int64 = 1 << 20

// MetricsExporter observes requests and serves the scrape endpoint
type MetricsExporter interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// Handlers bundles every HTTP handler the engine routes to
type Handlers struct {
	Bookings    *handler.RecordHandler[record.Booking]
	Fines       *handler.RecordHandler[record.Fine]
	Insurances  *handler.RecordHandler[record.Insurance]
	Collisions  *handler.RecordHandler[record.Collision]
	Collision   *handler.CollisionHandler
	Inspections *handler.RecordHandler[record.Inspection]
	Fires       *handler.RecordHandler[record.Fire]
	Stats       *handler.StatsHandler
	Payments    *handler.PaymentHandler
	Reports     *handler.ReportHandler
	System      *handler.SystemHandler
	Jobs        *handler.JobHandler // nil when no scheduler runs
}

// Config controls engine assembly
type Config struct {
	Logger          *zap.Logger
	Authenticator   middleware.Authenticator
	CORS            middleware.CORSConfig
	Metrics         MetricsExporter // optional
	MetricsPath     string
	Tracing         middleware.TracingConfig
	BodyLimit       int64
	CallbackLimiter *middleware.RateLimiter // optional
	GenerateLimiter *middleware.RateLimiter // optional
	TrustedProxies  []string
}

// NewEngine builds the gin engine with global middleware and every route
func NewEngine(cfg Config, h Handlers) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.Tracing(cfg.Tracing),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	engine.Use(middleware.BodyLimit(cfg.BodyLimit))

	engine.GET("/health", h.System.Health)
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		engine.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.POST(CallbackPath, limited(cfg.CallbackLimiter, middleware.ClientIPKey, h.Payments.Callback)...)

	authCfg := middleware.DefaultAuthConfig(cfg.Authenticator)
	authCfg.Logger = cfg.Logger

	r := NewRouter(engine, WithAPIMiddleware(
		middleware.Authenticate(authCfg),
		middleware.SpanAttributes(),
		middleware.Guard(access.ObserverReadOnly),
	))
	r.Register(
		bookingRoutes(h),
		fineRoutes(h),
		insuranceRoutes(h),
		collisionRoutes(h),
		inspectionRoutes(h),
		fireRoutes(h),
		reportRoutes(h, cfg.GenerateLimiter),
	)
	if h.Jobs != nil {
		r.Register(adminRoutes(h.Jobs))
	}
	r.Setup()

	return engine, nil
}

// limited prepends a rate limit when a limiter is configured
func limited(rl *middleware.RateLimiter, key func(*gin.Context) string, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	if rl == nil {
		return handlers
	}
	return append([]gin.HandlerFunc{middleware.RateLimit(rl, key)}, handlers...)
}

type crud interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// withCRUD registers the shared record routes. Static paths registered
// on the same group take precedence over /:id.
func withCRUD(g *DomainGroup, h crud) *DomainGroup {
	return g.
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		DELETE("/:id", middleware.Guard(access.AdminOnly), h.Delete)
}

func bookingRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("bookings", "/bookings").
		GET("/stat", h.Stats.BookingCounts).
		GET("/rev", h.Stats.BookingRevenue).
		GET("/check", h.Payments.CheckAll).
		GET("/check/:id", h.Payments.CheckOne)
	return withCRUD(g, h.Bookings)
}

func fineRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("fines", "/fines").
		GET("/stat", h.Stats.FineTotals).
		GET("/month", h.Stats.FineMonth)
	return withCRUD(g, h.Fines)
}

func insuranceRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("insurances", "/insurances").
		GET("/stat", h.Stats.InsuranceTotals).
		GET("/stat/bar", h.Stats.InsuranceBars).
		GET("/stat/pie", h.Stats.InsuranceShares).
		GET("/graph", h.Stats.InsuranceSeries)
	return withCRUD(g, h.Insurances)
}

func collisionRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("collisions", "/collisions").
		GET("/:id/download", middleware.Guard(access.CanDownloadAccidentReports), h.Collision.Download)
	return withCRUD(g, h.Collisions)
}

func inspectionRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("inspections", "/inspections").
		GET("/stat", h.Stats.InspectionTotals).
		GET("/stat/pie", h.Stats.InspectionShares).
		GET("/month", h.Stats.InspectionMonth)
	return withCRUD(g, h.Inspections)
}

func fireRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("fires", "/fires").
		GET("/stat", h.Stats.FireTotals).
		GET("/month", h.Stats.FireMonth)
	return withCRUD(g, h.Fires)
}

func reportRoutes(h Handlers, generate *middleware.RateLimiter) *DomainGroup {
	return NewDomainGroup("reports", "/reports").
		Use(middleware.Guard(access.CanDownloadBookingReports)).
		POST("/generate", limited(generate, middleware.ActorOrIPKey, h.Reports.Generate)...).
		GET("", h.Reports.List).
		GET("/stats", h.Reports.Stats).
		GET("/periods", h.Reports.Periods).
		GET("/:id", h.Reports.Get).
		GET("/:id/download", h.Reports.Download).
		DELETE("/:id", middleware.Guard(access.AdminOnly), h.Reports.Delete)
}

func adminRoutes(jobs *handler.JobHandler) *DomainGroup {
	return NewDomainGroup("admin", "/admin").
		Use(middleware.Guard(access.BlockBookingOfficerAdmin, access.BlockZonalHeadAdmin)).
		GET("/jobs", jobs.List).
		POST("/jobs/:name/trigger", middleware.Guard(access.AdminOnly), jobs.Trigger)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apppayment "github.com/fieldops/backend/internal/application/payment"
	apprecord "github.com/fieldops/backend/internal/application/record"
	appreport "github.com/fieldops/backend/internal/application/report"
	"github.com/fieldops/backend/internal/domain/query"
	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/event"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/payment"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/internal/infrastructure/render"
	"github.com/fieldops/backend/internal/infrastructure/scheduler"
	"github.com/fieldops/backend/internal/infrastructure/storage"
	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/fieldops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X main.Version=..."
var Version = "dev"

const (
	callbackRateLimit = 120 // per client IP per minute
	generateRateLimit = 10  // per actor per minute
	shutdownTimeout   = 30 * time.Second
)

// offlineGateway stands in when no bill gateway is configured
type offlineGateway struct{}

func (offlineGateway) IsPaid(context.Context, string) (bool, error) {
	return false, payment.ErrGatewayConfig
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting fieldops backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", Version),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		log.Fatal("Failed to load report timezone", zap.Error(err))
	}

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	// postgres schemas come from cmd/migrate
	if db.Driver == persistence.DriverSQLite {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.DefaultDBTracingConfig()
		dbTracing.Enabled = true
		if db.Driver == persistence.DriverSQLite {
			dbTracing.DBSystem = "sqlite"
		}
		if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}

	metrics := telemetry.NewMetrics()

	stores := cache.NewStores(ctx, cfg.Redis, log)
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cache stores", zap.Error(err))
		}
	}()

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(metrics, metrics.EventTypes()...)
	if cfg.Kafka.Enabled {
		forwarder, err := event.NewKafkaForwarder(cfg.Kafka, log,
			report.EventTypeReportCompleted, report.EventTypeReportFailed)
		if err != nil {
			log.Fatal("Failed to create Kafka forwarder", zap.Error(err))
		}
		defer forwarder.Close()
		bus.Subscribe(forwarder, forwarder.EventTypes()...)
		log.Info("Forwarding report events to Kafka", zap.String("topic", cfg.Kafka.Topic))
	}

	// Repositories
	bookingRepo := persistence.NewGormBookingRepository(db.DB, loc)
	fineRepo := persistence.NewGormFineRepository(db.DB, loc)
	insuranceRepo := persistence.NewGormInsuranceRepository(db.DB, loc)
	collisionRepo := persistence.NewGormCollisionRepository(db.DB, loc)
	inspectionRepo := persistence.NewGormInspectionRepository(db.DB, loc)
	fireRepo := persistence.NewGormFireRepository(db.DB, loc)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Record services
	compiler := query.NewCompiler(loc)
	bookingSvc := apprecord.NewService[record.Booking](record.KindBooking, bookingRepo, compiler,
		apprecord.Options[record.Booking]{WithUnit: true})
	fineSvc := apprecord.NewService[record.Fine](record.KindFine, fineRepo, compiler,
		apprecord.Options[record.Fine]{})
	insuranceSvc := apprecord.NewService[record.Insurance](record.KindInsurance, insuranceRepo, compiler,
		apprecord.Options[record.Insurance]{BeforeCreate: apprecord.InsuranceDefaults})
	collisionSvc := apprecord.NewService[record.Collision](record.KindCollision, collisionRepo, compiler,
		apprecord.Options[record.Collision]{})
	inspectionSvc := apprecord.NewService[record.Inspection](record.KindInspection, inspectionRepo, compiler,
		apprecord.Options[record.Inspection]{BeforeCreate: apprecord.InspectionDefaults})
	fireSvc := apprecord.NewService[record.Fire](record.KindFire, fireRepo, compiler,
		apprecord.Options[record.Fire]{BeforeCreate: apprecord.FireDefaults})

	statsSvc := apprecord.NewStatsService(apprecord.StatsSources{
		Bookings:    bookingRepo,
		Fines:       fineRepo,
		Insurances:  insuranceRepo,
		Inspections: inspectionRepo,
		Fires:       fireRepo,
	}, stores.Stats, apprecord.StatsConfig{Location: loc, CacheTTL: cfg.Redis.StatsTTL}, log)
	statsSvc.SetCacheObserver(metrics)

	// Payments
	var checker apppayment.Checker = offlineGateway{}
	if gateway, err := payment.NewBillGateway(cfg.Payment); err == nil {
		checker = gateway
	} else {
		log.Warn("Bill gateway not configured, payment checks will fail", zap.Error(err))
	}
	syncSvc := apppayment.NewSyncService(bookingRepo, checker, stores.Idempotency, metrics,
		apppayment.Config{CallbackTTL: cfg.Payment.CallbackTTL}, log)

	// Reports
	var remote *storage.S3Storage
	if cfg.Storage.S3Enabled {
		remote, err = storage.NewS3Storage(ctx, &cfg.Storage)
		if err != nil {
			log.Warn("S3 unavailable, reports will be stored locally", zap.Error(err))
			remote = nil
		}
	}
	files := storage.NewReportStore(remote,
		storage.NewLocalStorage(cfg.Storage.LocalDir, cfg.Storage.LocalURLPrefix), log)
	reportSvc := appreport.NewService(reportRepo, bookingRepo, render.NewXLSXRenderer(), files, bus,
		appreport.Config{Location: loc}, log).
		WithPaymentSync(syncSvc).
		WithDurationObserver(metrics)

	// Scheduled jobs
	var jobs *handler.JobHandler
	if cfg.Payment.SyncEnabled {
		sched := scheduler.New(scheduler.Config{Location: loc}, log)
		if err := sched.Register(apppayment.JobName, cfg.Payment.SyncSchedule, syncSvc.Job()); err != nil {
			log.Fatal("Failed to register payment sync job", zap.Error(err))
		}
		if err := sched.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := sched.Stop(sctx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		jobs = handler.NewJobHandler(sched)
		log.Info("Payment sync scheduled", zap.String("schedule", cfg.Payment.SyncSchedule))
	}

	callbackLimiter := middleware.NewRateLimiter(callbackRateLimit, time.Minute)
	generateLimiter := middleware.NewRateLimiter(generateRateLimit, time.Minute)
	go callbackLimiter.Run(ctx)
	go generateLimiter.Run(ctx)

	routerCfg := router.Config{
		Logger:          log,
		Authenticator:   auth.NewJWTService(cfg.JWT),
		CORS:            middleware.CORSConfigFromHTTP(cfg.HTTP),
		Tracing:         middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: cfg.Telemetry.Enabled},
		CallbackLimiter: callbackLimiter,
		GenerateLimiter: generateLimiter,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = metrics
		routerCfg.MetricsPath = cfg.Metrics.Path
	}

	engine, err := router.NewEngine(routerCfg, router.Handlers{
		Bookings:    handler.NewRecordHandler[record.Booking](bookingSvc),
		Fines:       handler.NewRecordHandler[record.Fine](fineSvc),
		Insurances:  handler.NewRecordHandler[record.Insurance](insuranceSvc),
		Collisions:  handler.NewRecordHandler[record.Collision](collisionSvc),
		Collision:   handler.NewCollisionHandler(collisionSvc),
		Inspections: handler.NewRecordHandler[record.Inspection](inspectionSvc),
		Fires:       handler.NewRecordHandler[record.Fire](fireSvc),
		Stats:       handler.NewStatsHandler(statsSvc),
		Payments:    handler.NewPaymentHandler(syncSvc),
		Reports:     handler.NewReportHandler(reportSvc),
		System: handler.NewSystemHandler(cfg.App.Name, Version, map[string]handler.HealthCheck{
			"database": func(context.Context) error { return db.Ping() },
			"cache":    stores.Ping,
		}),
		Jobs: jobs,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("cache", stores.Backend()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
	_ = os.Stdout.Sync()
}

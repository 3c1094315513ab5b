package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/dcastrillonv/parqueadero/internal/alert"
	"github.com/dcastrillonv/parqueadero/internal/api/docs"
	"github.com/dcastrillonv/parqueadero/internal/api/handler"
	"github.com/dcastrillonv/parqueadero/internal/api/middleware"
	"github.com/dcastrillonv/parqueadero/internal/audit"
	"github.com/dcastrillonv/parqueadero/internal/cache"
	"github.com/dcastrillonv/parqueadero/internal/config"
	"github.com/dcastrillonv/parqueadero/internal/mailer"
	"github.com/dcastrillonv/parqueadero/internal/provider"
	"github.com/dcastrillonv/parqueadero/internal/ratelimit"
	"github.com/dcastrillonv/parqueadero/internal/repository"
	"github.com/dcastrillonv/parqueadero/internal/service"
	"github.com/dcastrillonv/parqueadero/internal/ws"
)

type Dependencies struct {
	DB            *pgxpool.Pool
	PlateProvider provider.PlateProvider
	Config        *config.Config
}

type Router struct {
	app           *fiber.App
	logger        *slog.Logger
	deps          *Dependencies
	mailWorker    *mailer.Worker
	alertWorker   *alert.Worker
	wsHub         *ws.Hub
	cancelWorkers context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Parqueadero API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure the API routes when dependencies were provided
	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	// Mail queue: receipt emails are sent asynchronously by a polling worker
	mailSender := mailer.NewClient(
		r.deps.Config.MailerURL,
		r.deps.Config.MailerAPIKey,
		r.deps.Config.MailerFrom,
	)
	mailService := mailer.NewService(r.deps.DB)
	r.mailWorker = mailer.NewWorker(r.deps.DB, mailSender, r.logger)

	// Live event feed for operator consoles
	r.wsHub = ws.NewHub()
	go r.wsHub.Run()

	auditLogger := audit.NewSlogLogger(r.logger)
	reportRepo := repository.NewReportRepository(r.deps.DB)

	// Services
	billingService := service.NewBillingService(r.deps.DB, mailService, r.logger).
		WithEvents(r.wsHub).
		WithAudit(auditLogger)
	if r.deps.Config.AllowBackdatedExit {
		billingService = billingService.WithBackdatedExit()
	}
	vehicleService := service.NewVehicleService(r.deps.DB, r.logger).
		WithEvents(r.wsHub).
		WithAudit(auditLogger)
	rateService := service.NewRateService(repository.NewRateRepository(r.deps.DB), r.logger)
	spaceService := service.NewSpaceService(repository.NewSpaceRepository(r.deps.DB), r.logger).
		WithEvents(r.wsHub).
		WithAudit(auditLogger)
	reportService := service.NewReportService(reportRepo).
		WithCache(cache.NewPGCache(r.deps.DB), r.deps.Config.ReportCacheTTL)
	plateService := service.NewPlateService(
		r.deps.PlateProvider,
		repository.NewVehicleRepository(r.deps.DB),
		r.deps.Config.MinPlateConfidence,
		r.logger,
	)

	// Occupancy threshold alerts go out through the same mail queue
	r.alertWorker = alert.NewWorker(
		reportService,
		mailService,
		r.logger,
		r.deps.Config.OccupancyAlertThreshold,
		r.deps.Config.AlertEmail,
	)

	workerCtx, cancel := context.WithCancel(context.Background())
	r.cancelWorkers = cancel
	go r.mailWorker.Run(workerCtx)
	go r.alertWorker.Start(workerCtx)

	// Handlers
	vehicleHandler := handler.NewVehicleHandler(vehicleService, billingService, r.logger)
	rateHandler := handler.NewRateHandler(rateService, r.logger)
	spaceHandler := handler.NewSpaceHandler(spaceService, r.logger)
	paymentHandler := handler.NewPaymentHandler(billingService, reportService, r.logger)
	plateHandler := handler.NewPlateHandler(plateService, vehicleService, r.logger).
		WithRateLimit(
			ratelimit.NewRateLimiter(r.deps.DB, time.Minute),
			r.deps.Config.PlateRateLimit,
		)
	reportHandler := handler.NewReportHandler(reportService, r.logger)

	// Live event feed
	v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))

	// Vehicle routes
	v1.Post("/vehicles/entry", vehicleHandler.Entry)
	v1.Post("/vehicles/exit/:plate", vehicleHandler.Exit)
	v1.Get("/vehicles/active", vehicleHandler.ListActive)
	v1.Get("/vehicles/search/:plate", vehicleHandler.Search)

	// Rate routes
	v1.Post("/rates", rateHandler.Create)
	v1.Get("/rates", rateHandler.List)
	v1.Get("/rates/active/:class", rateHandler.ListActiveByClass)
	v1.Get("/rates/:id", rateHandler.Get)
	v1.Put("/rates/:id", rateHandler.Update)
	v1.Delete("/rates/:id", rateHandler.Deactivate)

	// Space routes
	v1.Post("/spaces", spaceHandler.Create)
	v1.Get("/spaces", spaceHandler.List)
	v1.Post("/spaces/auto-assign", spaceHandler.AutoAssign)
	v1.Get("/spaces/:id", spaceHandler.Get)
	v1.Put("/spaces/:id", spaceHandler.Update)
	v1.Delete("/spaces/:id", spaceHandler.Delete)
	v1.Post("/spaces/:id/assign", spaceHandler.Assign)
	v1.Post("/spaces/:id/release", spaceHandler.Release)

	// Payment routes
	v1.Post("/payments/quote", paymentHandler.Quote)
	v1.Post("/payments", paymentHandler.Settle)
	v1.Get("/payments", paymentHandler.List)
	v1.Get("/payments/stats/summary", paymentHandler.Stats)
	v1.Get("/payments/:id", paymentHandler.Get)
	v1.Post("/payments/:id/refund", paymentHandler.Refund)

	// Plate OCR routes
	v1.Post("/plates/recognize", plateHandler.Recognize)
	v1.Post("/plates/validate-exit", plateHandler.ValidateExit)

	// Report routes
	v1.Get("/reports/revenue", reportHandler.Revenue)
	v1.Get("/reports/occupancy", reportHandler.Occupancy)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop the background workers before closing the listener
	if r.cancelWorkers != nil {
		r.cancelWorkers()
	}

	return r.app.Shutdown()
}

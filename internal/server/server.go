package server

import (
	"context"
	"time"

	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/pkg/serverutils"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/service"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether a dependency (the database) is reachable.
type HealthCheck func(ctx context.Context) error

// Server is the optional ops surface of a worker process: liveness, the
// last sync status and Prometheus metrics. It never triggers syncs.
type Server struct {
	app    *fiber.App
	port   string
	logger logger.ILogger
}

func New(port string, statusRepo contract.SyncStatusRepository, health HealthCheck, log logger.ILogger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          serverutils.ErrorHandler,
	})

	app.Use(otelfiber.Middleware())

	registerRoutes(app, statusRepo, health)

	return &Server{
		app:    app,
		port:   port,
		logger: log,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Run blocks until Shutdown is called or Listen fails.
func (s *Server) Run() error {
	s.logger.Info("SERVER", "Ops server listening", map[string]interface{}{"port": s.port})
	return s.app.Listen(":" + s.port)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

func registerRoutes(app *fiber.App, statusRepo contract.SyncStatusRepository, health HealthCheck) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		if health != nil {
			if err := health(ctx.UserContext()); err != nil {
				return ctx.Status(fiber.StatusServiceUnavailable).
					JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "database unreachable: "+err.Error()))
			}
		}
		return ctx.JSON(serverutils.SuccessResponse("ok", map[string]string{"status": "up"}))
	})

	app.Get("/status", func(ctx *fiber.Ctx) error {
		statuses := map[string]*contract.SyncStatus{}
		for _, mode := range []string{service.ModeQueue, service.ModeBackfill} {
			status, err := statusRepo.Get(ctx.UserContext(), mode)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			if status != nil {
				statuses[mode] = status
			}
		}
		return ctx.JSON(serverutils.SuccessResponse("Sync status", statuses))
	})

	app.Get("/status/:mode", func(ctx *fiber.Ctx) error {
		status, err := statusRepo.Get(ctx.UserContext(), ctx.Params("mode"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if status == nil {
			return fiber.NewError(fiber.StatusNotFound, "no status reported for mode "+ctx.Params("mode"))
		}
		return ctx.JSON(serverutils.SuccessResponse("Sync status", status))
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

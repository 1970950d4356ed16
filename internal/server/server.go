package server

import (
	"errors"
	"time"

	"tokopos/internal/apperror"
	"tokopos/internal/handlers"
	"tokopos/internal/idempotency"
	"tokopos/internal/middleware"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP app is built from.
type Deps struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Orders   *services.OrderService
	Payments *services.PaymentService
	Bills    *services.BillService

	// Idempotency is optional; nil disables Idempotency-Key handling.
	Idempotency idempotency.Store
	DB          *gorm.DB
	// Gatherer backs /metrics. Nil leaves the route unregistered.
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
	AccessLog bool
}

// New builds the Fiber app with every route registered.
func New(d Deps) *fiber.App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "tokopos",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}

	app.Get("/health", healthHandler(d.DB))
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	handlers.NewAuthHandler(d.Auth, log).RegisterRoutes(apiV1)

	// Everything else requires a valid JWT.
	protected := apiV1.Group("", middleware.AuthRequired(d.Auth, log))
	handlers.NewProductHandler(d.Products, log).RegisterRoutes(protected)
	handlers.NewOrderHandler(d.Orders, d.Idempotency, log).RegisterRoutes(protected)
	handlers.NewPaymentHandler(d.Payments, log).RegisterRoutes(protected)
	handlers.NewBillHandler(d.Bills, log).RegisterRoutes(protected)

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		database := "up"
		if db != nil {
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
				status, code, database = "unhealthy", fiber.StatusServiceUnavailable, "down"
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"message": fe.Message,
				"error":   fe.Message,
			})
		}
		log.Error("unhandled_error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
			"error":   "internal server error",
			"kind":    apperror.KindInternal,
		})
	}
}

package handlers

import (
	"tokopos/internal/idempotency"
	"tokopos/internal/middleware"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdempotencyHeader lets clients retry order creation without reserving stock twice.
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
	idem    idempotency.Store
	log     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler. idem may be nil, which disables
// Idempotency-Key handling.
func NewOrderHandler(service *services.OrderService, idem idempotency.Store, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		idem:    idem,
		log:     log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order for the authenticated cashier.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFrom(c)
	ctx := c.UserContext()

	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}

	key := c.Get(IdempotencyHeader)
	if key != "" && h.idem != nil {
		key = principal.UserID + ":" + key
		orderID, found, err := h.idem.Lookup(ctx, key)
		if err != nil {
			h.log.Warn("idempotency_lookup_failed", zap.Error(err))
		} else if found {
			order, err := h.service.GetOrderByID(ctx, orderID)
			if err != nil {
				return respondError(c, h.log, "Could not retrieve order", err)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(fiber.StatusOK).JSON(order)
		}
	}

	createdOrder, err := h.service.CreateOrder(ctx, principal, req)
	if err != nil {
		return respondError(c, h.log, "Could not create order", err)
	}

	if key != "" && h.idem != nil {
		if err := h.idem.Remember(ctx, key, createdOrder.ID); err != nil {
			h.log.Warn("idempotency_store_failed", zap.String("order_id", createdOrder.ID), zap.Error(err))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleCancelOrder cancels an order and returns its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	ack, err := h.service.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not cancel order", err)
	}
	return c.JSON(ack)
}

package handlers

import (
	"tokopos/internal/middleware"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	service *services.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service *services.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payments", h.HandleCreatePayment)
	router.Get("/orders/:id/payments", h.HandleGetPayments)
}

// HandleCreatePayment records the single payment of an order and completes it.
// Whether the amount must cover the total depends on the PaymentPolicy.
func (h *PaymentHandler) HandleCreatePayment(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFrom(c)

	var req services.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c, err)
	}

	ack, err := h.service.CreatePayment(c.UserContext(), principal, req)
	if err != nil {
		return respondError(c, h.log, "Could not process payment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(ack)
}

func (h *PaymentHandler) HandleGetPayments(c *fiber.Ctx) error {
	payments, err := h.service.GetPaymentsByOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve payments", err)
	}
	return c.JSON(payments)
}

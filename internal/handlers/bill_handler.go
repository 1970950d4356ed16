package handlers

import (
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BillHandler serves receipts. All routes are read-only.
type BillHandler struct {
	service *services.BillService
	log     *zap.Logger
}

func NewBillHandler(service *services.BillService, log *zap.Logger) *BillHandler {
	return &BillHandler{service: service, log: log}
}

func (h *BillHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders/:id/bill-data", h.HandleGetBillData)
	router.Get("/orders/:id/bill", h.HandleGenerateBill)
	router.Get("/orders/:id/bill/html", h.HandleBillHTML)
}

func (h *BillHandler) HandleGetBillData(c *fiber.Ctx) error {
	order, err := h.service.GetBillData(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve bill data", err)
	}
	return c.JSON(fiber.Map{"order": order})
}

func (h *BillHandler) HandleGenerateBill(c *fiber.Ctx) error {
	bill, err := h.service.GenerateBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not generate bill", err)
	}
	return c.JSON(bill)
}

// HandleBillHTML returns the printable receipt page.
func (h *BillHandler) HandleBillHTML(c *fiber.Ctx) error {
	bill, err := h.service.GenerateBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not generate bill", err)
	}
	c.Type("html", "utf-8")
	return c.SendString(bill.HTML)
}

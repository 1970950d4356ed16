package handlers

import (
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product with its opening stock.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequestBody(c, err)
	}
	product.ID = ""

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates catalog fields. A quantity in the body is ignored.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequestBody(c, err)
	}
	product.ID = c.Params("id")

	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

package handlers

import (
	"strconv"

	"bitstore/internal/middleware"
	"bitstore/internal/repositories"
	"bitstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the product routes. The router must already
// require authentication; update and delete authorization is decided by
// the modify policy inside the service.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleList)
	productRoutes.Post("/", h.HandleCreate)
	productRoutes.Get("/:id", h.HandleGet)
	productRoutes.Put("/:id", h.HandleUpdate)
	productRoutes.Patch("/:id", h.HandleUpdate)
	productRoutes.Delete("/:id", h.HandleDelete)
}

// ProductRequest is the full product body used by create and PUT. Price
// and stock are pointers so a present zero survives the required check.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	CategoryID  string   `json:"category_id" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Stock       *int     `json:"stock" validate:"required"`
	Description string   `json:"description" validate:"required"`
}

func (r *ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:        &r.Name,
		CategoryID:  &r.CategoryID,
		Price:       r.Price,
		Stock:       r.Stock,
		Description: &r.Description,
	}
}

// ProductPatchRequest is the partial body used by PATCH; absent fields
// keep their stored values.
type ProductPatchRequest struct {
	Name        *string  `json:"name"`
	CategoryID  *string  `json:"category_id"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Description *string  `json:"description"`
}

// parseProductFilter maps recognized query parameters onto the repository
// filter. Unrecognized parameters and malformed numbers are ignored.
func parseProductFilter(c *fiber.Ctx) repositories.ProductFilter {
	filter := repositories.ProductFilter{
		CategoryID:   c.Query("category"),
		CategoryName: c.Query("category_name"),
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
	}
	if v := c.Query("price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.Price = &f
		}
	}
	if v := c.Query("stock"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Stock = &n
		}
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	return filter
}

// HandleList retrieves products, honoring filter, search and ordering
// params.
func (h *ProductHandler) HandleList(c *fiber.Ctx) error {
	products, err := h.service.List(parseProductFilter(c))
	if err != nil {
		h.log.Error("failed to list products", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(products)
}

// HandleGet retrieves a single product.
func (h *ProductHandler) HandleGet(c *fiber.Ctx) error {
	product, err := h.service.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleCreate creates a new product, bound to the acting user as its
// creator.
func (h *ProductHandler) HandleCreate(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  requestErrors(err),
		})
	}

	product, err := h.service.Create(middleware.CurrentUser(c), req.toInput())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdate updates a product. PUT requires the full body; PATCH
// applies only the supplied fields.
func (h *ProductHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.ProductInput

	if c.Method() == fiber.MethodPatch {
		var req ProductPatchRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		input = services.ProductInput{
			Name:        req.Name,
			CategoryID:  req.CategoryID,
			Price:       req.Price,
			Stock:       req.Stock,
			Description: req.Description,
		}
	} else {
		var req ProductRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := h.validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  requestErrors(err),
			})
		}
		input = req.toInput()
	}

	product, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), input)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(product)
}

// HandleDelete removes a product.
func (h *ProductHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

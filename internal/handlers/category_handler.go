package handlers

import (
	"bitstore/internal/middleware"
	"bitstore/internal/models"
	"bitstore/internal/repositories"
	"bitstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
	log      *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the category routes. The router must already
// require authentication; detail routes are additionally admin-only.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, adminRequired fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleList)
	categoryRoutes.Post("/", h.HandleCreate)
	categoryRoutes.Get("/:id", adminRequired, h.HandleGet)
	categoryRoutes.Put("/:id", adminRequired, h.HandleUpdate)
	categoryRoutes.Patch("/:id", adminRequired, h.HandleUpdate)
	categoryRoutes.Delete("/:id", adminRequired, h.HandleDelete)
}

// CategoryRequest is the full category body used by create and PUT.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CategoryPatchRequest is the partial body used by PATCH; absent fields
// keep their stored values.
type CategoryPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// HandleList retrieves categories, honoring search and ordering params.
func (h *CategoryHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.CategoryFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	categories, err := h.service.List(filter)
	if err != nil {
		h.log.Error("failed to list categories", zap.Error(err))
		return errorResponse(c, err)
	}
	return c.JSON(categories)
}

// HandleGet retrieves a single category.
func (h *CategoryHandler) HandleGet(c *fiber.Ctx) error {
	category, err := h.service.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(category)
}

// HandleCreate creates a new category.
func (h *CategoryHandler) HandleCreate(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  requestErrors(err),
		})
	}

	category, err := h.service.Create(&models.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdate updates a category. PUT requires the full body; PATCH
// applies only the supplied fields.
func (h *CategoryHandler) HandleUpdate(c *fiber.Ctx) error {
	var input services.CategoryInput

	if c.Method() == fiber.MethodPatch {
		var req CategoryPatchRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		input = services.CategoryInput{
			Name:        req.Name,
			Description: req.Description,
		}
	} else {
		var req CategoryRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := h.validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  requestErrors(err),
			})
		}
		input = services.CategoryInput{
			Name:        &req.Name,
			Description: &req.Description,
		}
	}

	category, err := h.service.Update(middleware.CurrentUser(c), c.Params("id"), input)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(category)
}

// HandleDelete removes a category.
func (h *CategoryHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.CurrentUser(c), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

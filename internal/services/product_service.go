package services

import (
	"encoding/json"
	"errors"

	"bitstore/internal/models"
	"bitstore/internal/policy"
	"bitstore/internal/repositories"
	"bitstore/internal/validation"
	"bitstore/pkg/rabbitmq"

	"go.uber.org/zap"
)

// ProductInput carries product fields for creates and updates; nil means
// the field was not supplied. On create, absent fields default to their
// zero values before validation; on update they keep their stored values.
type ProductInput struct {
	Name        *string
	CategoryID  *string
	Price       *float64
	Stock       *int
	Description *string
}

// ProductService handles business logic related to products.
type ProductService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	policy       *policy.Policy
	mqClient     *rabbitmq.Client
	log          *zap.Logger
}

// NewProductService creates a new ProductService. mqClient may be nil, in
// which case catalog events are skipped.
func NewProductService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	pol *policy.Policy,
	mqClient *rabbitmq.Client,
	log *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		policy:       pol,
		mqClient:     mqClient,
		log:          log,
	}
}

// List retrieves products matching the filter.
func (s *ProductService) List(filter repositories.ProductFilter) ([]models.Product, error) {
	return s.productRepo.GetAll(filter)
}

// Get retrieves a single product by its ID.
func (s *ProductService) Get(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// Create validates and stores a new product. The creator is always bound
// to the acting user; any client-supplied value is ignored.
func (s *ProductService) Create(actor *models.User, input ProductInput) (*models.Product, error) {
	product := &models.Product{}
	applyProductInput(product, input)
	product.CreatedByID = actor.ID

	if err := s.validate(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.String("actor_id", actor.ID))
	s.publishEvent("product.created", product)

	return product, nil
}

// Update merges the input onto the stored product, re-validates the
// result, checks the modify policy and saves. CreatedAt and the creator
// binding never change.
func (s *ProductService) Update(actor *models.User, id string, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, input)

	if err := s.validate(product); err != nil {
		return nil, err
	}

	allowed, err := s.policy.CanModifyProduct(actor)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.log.Info("product updated",
		zap.String("product_id", product.ID),
		zap.String("actor_id", actor.ID))
	s.publishEvent("product.updated", product)

	return product, nil
}

// Delete removes a product, gated by the same modify policy as updates.
func (s *ProductService) Delete(actor *models.User, id string) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}

	allowed, err := s.policy.CanModifyProduct(actor)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrForbidden
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	s.log.Info("product deleted",
		zap.String("product_id", id),
		zap.String("actor_id", actor.ID))
	s.publishEvent("product.deleted", product)

	return nil
}

// validate runs the field rules and checks the category reference.
func (s *ProductService) validate(product *models.Product) error {
	var errs validation.Errors
	if err := validation.ValidateProduct(product); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if product.CategoryID == "" {
		errs = append(errs, validation.Error{
			Field:   "category_id",
			Code:    validation.CodeInvalidFormat,
			Message: "Category is required.",
		})
	} else if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			errs = append(errs, validation.Error{
				Field:   "category_id",
				Code:    validation.CodeInvalidFormat,
				Message: "Category does not exist.",
			})
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// publishEvent sends a catalog event. Publishing is best-effort: a broker
// failure is logged and never fails the request.
func (s *ProductService) publishEvent(routingKey string, product *models.Product) {
	if s.mqClient == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"event":       routingKey,
		"product_id":  product.ID,
		"name":        product.Name,
		"category_id": product.CategoryID,
		"price":       product.Price,
		"stock":       product.Stock,
	})
	if err != nil {
		s.log.Error("failed to marshal catalog event", zap.Error(err))
		return
	}

	if err := s.mqClient.Publish(rabbitmq.CatalogExchange, routingKey, body); err != nil {
		s.log.Warn("failed to publish catalog event",
			zap.String("event", routingKey),
			zap.String("product_id", product.ID),
			zap.Error(err))
	}
}

func applyProductInput(product *models.Product, input ProductInput) {
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	// A stale preloaded association must not leak into responses after a
	// category change.
	if input.CategoryID != nil {
		product.Category = nil
	}
}

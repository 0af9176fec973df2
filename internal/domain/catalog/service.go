// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Service handles catalog business logic
type Service struct {
	repo   Repository
	cache  Cache
	logger *logrus.Logger
	sfg    singleflight.Group // prevents cache stampede on hot products
}

// NewService creates a new catalog service
func NewService(repo Repository, cache Cache, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Title       string   `json:"title" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Model       string   `json:"model" binding:"required"`
	Price       int64    `json:"price" binding:"required,min=1"` // centavos
	Description string   `json:"description"`
	Images      []string `json:"images"`
	WidthCm     float64  `json:"width_cm"`
	HeightCm    float64  `json:"height_cm"`
	LengthCm    float64  `json:"length_cm"`
	WeightKg    float64  `json:"weight_kg"`
	Years       []string `json:"years"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Title       *string   `json:"title"`
	Brand       *string   `json:"brand"`
	Model       *string   `json:"model"`
	Price       *int64    `json:"price"`
	Description *string   `json:"description"`
	Images      *[]string `json:"images"`
	WidthCm     *float64  `json:"width_cm"`
	HeightCm    *float64  `json:"height_cm"`
	LengthCm    *float64  `json:"length_cm"`
	WeightKg    *float64  `json:"weight_kg"`
	Years       *[]string `json:"years"`
}

// GetProduct retrieves a single product by id, consulting the cache first.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithField("product_id", id).WithError(err).Warn("Product cache read failed")
		}

		product, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, product); err != nil {
			s.logger.WithField("product_id", id).WithError(err).Warn("Product cache write failed")
		}

		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

// ListProducts returns all products ordered by title ascending.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// ListViews returns the customer-facing projections of all products.
func (s *Service) ListViews(ctx context.Context) ([]View, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, len(products))
	for i, p := range products {
		views[i] = NewView(p)
	}
	return views, nil
}

// CreateProduct creates a new product. The id is derived from brand and
// model; a colliding slug is rejected rather than silently overwritten.
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	slug := GenerateSlug(req.Brand, req.Model)
	if slug == slugify(SlugPrefix) {
		return nil, fmt.Errorf("brand and model produce an empty identifier")
	}

	now := time.Now().UTC()
	product := &Product{
		ID:          slug,
		Title:       strings.TrimSpace(req.Title),
		Brand:       strings.TrimSpace(req.Brand),
		Model:       strings.TrimSpace(req.Model),
		Price:       req.Price,
		Description: req.Description,
		Images:      req.Images,
		WidthCm:     req.WidthCm,
		HeightCm:    req.HeightCm,
		LengthCm:    req.LengthCm,
		WeightKg:    req.WeightKg,
		Years:       req.Years,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct updates an existing product in place. The id is never
// regenerated on edit, even when brand or model text changes.
func (s *Service) UpdateProduct(ctx context.Context, id string, req *ProductUpdateRequest) (*Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = strings.TrimSpace(*req.Title)
	}
	if req.Brand != nil {
		product.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		product.Model = strings.TrimSpace(*req.Model)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.WidthCm != nil {
		product.WidthCm = *req.WidthCm
	}
	if req.HeightCm != nil {
		product.HeightCm = *req.HeightCm
	}
	if req.LengthCm != nil {
		product.LengthCm = *req.LengthCm
	}
	if req.WeightKg != nil {
		product.WeightKg = *req.WeightKg
	}
	if req.Years != nil {
		product.Years = *req.Years
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return product, nil
}

// DeleteProduct removes a product permanently. Deletion is always an explicit
// administrator action.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.WithField("product_id", id).WithError(err).Warn("Product cache invalidation failed")
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"credpal/internal/app/policy"
	"credpal/internal/common"
	"credpal/internal/domain/model"
	"credpal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ProductService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

func (s *ProductService) Create(ctx context.Context, principal *model.Principal, req CreateProductRequest) (*model.Product, error) {
	if req.Name == "" || req.Description == "" || req.Category == "" {
		return nil, fmt.Errorf("name, description and category are required: %w", common.ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must be a non-negative number: %w", common.ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity must be a non-negative integer: %w", common.ErrValidation)
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Category:    strings.TrimSpace(req.Category),
		CreatedByID: principal.ID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, page, limit int, category, search string) ([]model.Product, int, error) {
	offset := (page - 1) * limit
	return s.productRepo.List(ctx, limit, offset, category, search)
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Update applies a partial change to a product. Only the owner or an
// admin may mutate it; the ownership check runs against the stored
// record on every request.
func (s *ProductService) Update(ctx context.Context, principal *model.Principal, id string, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(principal, policy.OwnerOrAdmin, product.CreatedByID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", common.ErrValidation)
		}
		product.Name = strings.TrimSpace(*req.Name)
		product.Slug = slug.Make(product.Name)
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, fmt.Errorf("description cannot be empty: %w", common.ErrValidation)
		}
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price must be a non-negative number: %w", common.ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity must be a non-negative integer: %w", common.ErrValidation)
		}
		product.Quantity = *req.Quantity
	}
	if req.Category != nil {
		if strings.TrimSpace(*req.Category) == "" {
			return nil, fmt.Errorf("category cannot be empty: %w", common.ErrValidation)
		}
		product.Category = strings.TrimSpace(*req.Category)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, principal *model.Principal, id string) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(principal, policy.OwnerOrAdmin, product.CreatedByID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

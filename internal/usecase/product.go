package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type UpdateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

type ProductService struct {
	Repo ProductRepositoryInterface
	Log  *zap.Logger
}

func NewProductService(repo ProductRepositoryInterface, log *zap.Logger) *ProductService {
	return &ProductService{Repo: repo, Log: log.Named("product.service")}
}

func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if err := validateCreateProductInput(input); err != nil {
		return nil, err
	}

	product := entity.NewProduct(strings.TrimSpace(input.Name), input.Description, input.PriceCents)
	if err := s.Repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "product", id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]*entity.Product, error) {
	return s.Repo.List(ctx)
}

// Update edits the catalog entry only. Line items that already
// snapshotted this product keep their captured name and price.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*entity.Product, error) {
	product, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err, "product", id)
	}

	if err := validateCreateProductInput(CreateProductInput(input)); err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.PriceCents = input.PriceCents

	if err := s.Repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}

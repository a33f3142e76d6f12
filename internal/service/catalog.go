package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opencatalog/catalog/internal/domain"
	"github.com/opencatalog/catalog/internal/event"
	"github.com/opencatalog/catalog/internal/repository"
)

// CatalogService implements the business logic for catalog operations.
type CatalogService struct {
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		reviews:  reviews,
		producer: producer,
		logger:   logger,
	}
}

// ListProducts returns all products with their rating summaries, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.ProductListItem, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	ratings, err := s.reviews.ListRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}

	items := make([]domain.ProductListItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.ProductListItem{
			Product: p,
			Summary: domain.SummarizeRatings(ratings[p.ID]),
		})
	}

	return items, nil
}

// GetProductDetail returns a product with its reviews and rating summary.
func (s *CatalogService) GetProductDetail(ctx context.Context, id int64) (*domain.ProductDetail, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}

	reviews, err := s.reviews.ListByProductID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", id, err)
	}

	return &domain.ProductDetail{
		Product: *product,
		Reviews: reviews,
		Summary: domain.Summarize(reviews),
	}, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/opencatalog/catalog/internal/domain"
	apperrors "github.com/opencatalog/catalog/pkg/errors"
)

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Image       *string
}

// CreateReviewInput holds the parameters for creating a review.
type CreateReviewInput struct {
	ProductID  int64
	UserName   string
	Rating     int
	ReviewText string
}

// CreateProduct creates a new product with the given input.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}

	product := &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Image:       input.Image,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	return product, nil
}

// CreateReview creates a new review for an existing product.
func (s *CatalogService) CreateReview(ctx context.Context, input *CreateReviewInput) (*domain.Review, error) {
	userName := strings.TrimSpace(input.UserName)
	if userName == "" {
		return nil, apperrors.InvalidInput("user name is required")
	}
	if input.Rating < domain.MinRating || input.Rating > domain.MaxRating {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	// The product must exist; a missing one surfaces as not found.
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product %d: %w", input.ProductID, err)
	}

	review := &domain.Review{
		ProductID:  input.ProductID,
		UserName:   userName,
		Rating:     input.Rating,
		ReviewText: strings.TrimSpace(input.ReviewText),
		ReviewDate: time.Now().UTC(),
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("product_id", review.ProductID),
		slog.String("user_name", review.UserName),
		slog.Int("rating", review.Rating),
	)

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.Int64("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	return review, nil
}

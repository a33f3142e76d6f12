package repository

import (
	"context"

	"github.com/opencatalog/catalog/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product and fills in its store-assigned ID.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns all products, newest first.
	List(ctx context.Context) ([]domain.Product, error)
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review and fills in its store-assigned ID.
	Create(ctx context.Context, review *domain.Review) error

	// ListByProductID returns all reviews for a product, newest first.
	ListByProductID(ctx context.Context, productID int64) ([]domain.Review, error)

	// ListRatings returns the ratings of every review, keyed by product ID.
	ListRatings(ctx context.Context) (map[int64][]int, error)
}

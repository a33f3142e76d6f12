package postgres

import (
	"context"
	"fmt"

	"github.com/opencatalog/catalog/internal/domain"
	"github.com/opencatalog/catalog/pkg/database"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new product review into the database and fills in the
// store-assigned ID.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (product_id, user_name, rating, review_text, review_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		review.ProductID,
		review.UserName,
		review.Rating,
		review.ReviewText,
		review.ReviewDate,
	).Scan(&review.ID)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByProductID returns all reviews for a product, newest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `
		SELECT id, product_id, user_name, rating, review_text, review_date
		FROM reviews
		WHERE product_id = $1
		ORDER BY review_date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserName,
			&rv.Rating,
			&rv.ReviewText,
			&rv.ReviewDate,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// ListRatings returns the ratings of every review, keyed by product ID.
// The catalog list page aggregates these per product.
func (r *ReviewRepository) ListRatings(ctx context.Context) (map[int64][]int, error) {
	query := `
		SELECT product_id, rating
		FROM reviews`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[int64][]int)

	for rows.Next() {
		var (
			productID int64
			rating    int
		)

		if err := rows.Scan(&productID, &rating); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}

		ratings[productID] = append(ratings[productID], rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	return ratings, nil
}

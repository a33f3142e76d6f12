package domain

import (
	"time"
)

// Rating bounds for a review. Ratings are whole stars.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user-submitted review of a product. Reviews are append-only:
// once created they are never edited or removed.
type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"review_text"`
	ReviewDate time.Time `json:"review_date"`
}

package domain

import (
	"time"
)

// Product represents a product in the catalog. The ID is assigned by the
// data store on insert and is immutable afterwards; products are never
// updated or deleted.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductListItem pairs a product with its rating summary for the list view.
type ProductListItem struct {
	Product Product       `json:"product"`
	Summary RatingSummary `json:"summary"`
}

// ProductDetail is a product together with its reviews and rating summary.
type ProductDetail struct {
	Product Product       `json:"product"`
	Reviews []Review      `json:"reviews"`
	Summary RatingSummary `json:"summary"`
}

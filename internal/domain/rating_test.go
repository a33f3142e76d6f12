package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reviewsWithRatings(ratings ...int) []Review {
	reviews := make([]Review, 0, len(ratings))
	for i, r := range ratings {
		reviews = append(reviews, Review{ID: int64(i + 1), ProductID: 1, Rating: r})
	}
	return reviews
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, RatingSummary{}, summary)
}

func TestSummarize_Average(t *testing.T) {
	summary := Summarize(reviewsWithRatings(3, 4, 5))

	assert.InDelta(t, 4.0, summary.AverageRating, 1e-9)
	assert.Equal(t, 80, summary.StarsPercent)
	assert.Equal(t, 3, summary.ReviewCount)
}

func TestSummarize_Bounds(t *testing.T) {
	low := Summarize(reviewsWithRatings(1))
	assert.InDelta(t, 1.0, low.AverageRating, 1e-9)
	assert.Equal(t, 20, low.StarsPercent)

	high := Summarize(reviewsWithRatings(5))
	assert.InDelta(t, 5.0, high.AverageRating, 1e-9)
	assert.Equal(t, 100, high.StarsPercent)
}

func TestSummarize_Rounding(t *testing.T) {
	// avg 4.333... -> 86.66% -> 87
	summary := Summarize(reviewsWithRatings(4, 4, 5))

	assert.Equal(t, 87, summary.StarsPercent)
}

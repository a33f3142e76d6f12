package domain

import (
	"math"
)

// RatingSummary aggregates the ratings of a product's reviews.
// StarsPercent expresses the average as a percentage of the maximum
// rating, rounded to the nearest whole number; the UI uses it to size
// the star bar.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	StarsPercent  int     `json:"stars_percent"`
	ReviewCount   int     `json:"review_count"`
}

// Summarize computes the rating summary for a set of reviews. An empty
// set yields the zero summary.
func Summarize(reviews []Review) RatingSummary {
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return SummarizeRatings(ratings)
}

// SummarizeRatings computes the rating summary from raw rating values.
func SummarizeRatings(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	total := 0
	for _, r := range ratings {
		total += r
	}

	avg := float64(total) / float64(len(ratings))
	return RatingSummary{
		AverageRating: avg,
		StarsPercent:  int(math.Round(avg / MaxRating * 100)),
		ReviewCount:   len(ratings),
	}
}

package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewForm struct {
	UserName   string `validate:"required,max=100"`
	Rating     int    `validate:"required,min=1,max=5"`
	ReviewText string `validate:"required"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(reviewForm{UserName: "Alice", Rating: 5, ReviewText: "Great"})
	assert.NoError(t, err)
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	err := Validate(reviewForm{Rating: 3})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["UserName"])
	assert.Equal(t, "is required", fields["ReviewText"])
	assert.NotContains(t, fields, "Rating")
}

func TestValidate_RatingOutOfRange(t *testing.T) {
	err := Validate(reviewForm{UserName: "Bob", Rating: 6, ReviewText: "x"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be at most 5", valErr.Fields()["Rating"])
}

func TestValidationError_ErrorMessage(t *testing.T) {
	err := Validate(reviewForm{UserName: "Bob", Rating: 0, ReviewText: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Rating'")
}

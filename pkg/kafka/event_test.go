package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Fields(t *testing.T) {
	type reviewData struct {
		ReviewID  int64 `json:"review_id"`
		ProductID int64 `json:"product_id"`
	}

	data := reviewData{ReviewID: 7, ProductID: 3}
	event, err := NewEvent("catalog.review.created", "7", "review", "catalog", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "catalog.review.created", event.EventType)
	assert.Equal(t, "7", event.AggregateID)
	assert.Equal(t, "review", event.AggregateType)
	assert.Equal(t, "catalog", event.Source)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var decoded reviewData
	require.NoError(t, event.UnmarshalData(&decoded))
	assert.Equal(t, data, decoded)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("catalog.product.created", "42", "product", "catalog", map[string]string{"name": "Widget"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1")

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "catalog.product.created", decoded.EventType)
}

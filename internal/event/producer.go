package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/opencatalog/catalog/internal/domain"
	pkgkafka "github.com/opencatalog/catalog/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated = "catalog.product.created"
	TopicReviewCreated  = "catalog.review.created"
)

// Aggregate type constants.
const (
	AggregateTypeProduct = "product"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from the catalog service.
const SourceCatalog = "catalog"

// ProductCreatedData is the payload for a product.created event.
type ProductCreatedData struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	UserName   string    `json:"user_name"`
	Rating     int       `json:"rating"`
	ReviewDate time.Time `json:"review_date"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductCreatedData{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicProductCreated, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create product.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductCreated, event); err != nil {
		return fmt.Errorf("publish product.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.created event",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:         review.ID,
		ProductID:  review.ProductID,
		UserName:   review.UserName,
		Rating:     review.Rating,
		ReviewDate: review.ReviewDate,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, strconv.FormatInt(review.ID, 10), AggregateTypeReview, SourceCatalog, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.Int64("review_id", review.ID),
		slog.Int64("product_id", review.ProductID),
		slog.Int("rating", review.Rating),
	)

	return nil
}

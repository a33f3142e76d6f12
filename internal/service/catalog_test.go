package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/catalog/internal/domain"
	"github.com/opencatalog/catalog/internal/event"
	apperrors "github.com/opencatalog/catalog/pkg/errors"
	pkgkafka "github.com/opencatalog/catalog/pkg/kafka"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByProductID(ctx context.Context, productID int64) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) ListRatings(ctx context.Context) (map[int64][]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]int), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(products *mockProductRepository, reviews *mockReviewRepository) *CatalogService {
	logger := newTestLogger()
	// Kafka publishing fails silently in tests (no real broker).
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	producer := event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
	return NewCatalogService(products, reviews, producer, logger)
}

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testProduct(id int64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        "Walnut Desk",
		Description: "Solid walnut standing desk.",
		CreatedAt:   testTime,
	}
}

// --- Tests ---

func TestListProducts_WithSummaries(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	products.On("List", ctx).Return([]domain.Product{testProduct(2), testProduct(1)}, nil)
	reviews.On("ListRatings", ctx).Return(map[int64][]int{1: {3, 4, 5}}, nil)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Product 2 has no reviews, product 1 averages 4.0.
	assert.Equal(t, domain.RatingSummary{}, items[0].Summary)
	assert.Equal(t, int64(1), items[1].Product.ID)
	assert.InDelta(t, 4.0, items[1].Summary.AverageRating, 1e-9)
	assert.Equal(t, 80, items[1].Summary.StarsPercent)
	assert.Equal(t, 3, items[1].Summary.ReviewCount)

	products.AssertExpectations(t)
	reviews.AssertExpectations(t)
}

func TestListProducts_Empty(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	products.On("List", ctx).Return([]domain.Product{}, nil)
	reviews.On("ListRatings", ctx).Return(map[int64][]int{}, nil)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetProductDetail_Success(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	p := testProduct(1)
	rvs := []domain.Review{
		{ID: 2, ProductID: 1, UserName: "bob", Rating: 5, ReviewDate: testTime},
		{ID: 1, ProductID: 1, UserName: "alice", Rating: 3, ReviewDate: testTime.Add(-time.Hour)},
	}

	products.On("GetByID", ctx, int64(1)).Return(&p, nil)
	reviews.On("ListByProductID", ctx, int64(1)).Return(rvs, nil)

	detail, err := svc.GetProductDetail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, p, detail.Product)
	assert.Equal(t, rvs, detail.Reviews)
	assert.InDelta(t, 4.0, detail.Summary.AverageRating, 1e-9)
	assert.Equal(t, 2, detail.Summary.ReviewCount)
}

func TestGetProductDetail_NotFound(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	products.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NotFound("product", 99))

	detail, err := svc.GetProductDetail(ctx, 99)
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateProduct_Success(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	products.On("Create", ctx, mock.AnythingOfType("*domain.Product")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Product).ID = 7
		}).
		Return(nil)

	got, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:        "  Oak Chair  ",
		Description: "A comfortable oak chair.",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Oak Chair", got.Name)
	assert.False(t, got.CreatedAt.IsZero())
	products.AssertExpectations(t)
}

func TestCreateProduct_MissingName(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)

	got, err := svc.CreateProduct(context.Background(), &CreateProductInput{Name: "   "})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_Success(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	p := testProduct(1)
	products.On("GetByID", ctx, int64(1)).Return(&p, nil)
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Review).ID = 11
		}).
		Return(nil)

	got, err := svc.CreateReview(ctx, &CreateReviewInput{
		ProductID:  1,
		UserName:   "alice",
		Rating:     4,
		ReviewText: "Good value.",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, 4, got.Rating)
	assert.False(t, got.ReviewDate.IsZero())
	reviews.AssertExpectations(t)
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)

	for _, rating := range []int{0, 6, -1} {
		got, err := svc.CreateReview(context.Background(), &CreateReviewInput{
			ProductID: 1,
			UserName:  "alice",
			Rating:    rating,
		})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	}
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_MissingUserName(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)

	got, err := svc.CreateReview(context.Background(), &CreateReviewInput{
		ProductID: 1,
		Rating:    4,
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCreateReview_ProductNotFound(t *testing.T) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	svc := newTestService(products, reviews)
	ctx := context.Background()

	products.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NotFound("product", 99))

	got, err := svc.CreateReview(ctx, &CreateReviewInput{
		ProductID: 99,
		UserName:  "alice",
		Rating:    4,
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/opencatalog/catalog/internal/auth"
	"github.com/opencatalog/catalog/internal/service"
	apperrors "github.com/opencatalog/catalog/pkg/errors"
	"github.com/opencatalog/catalog/pkg/middleware"
	"github.com/opencatalog/catalog/pkg/validator"
)

// ReviewHandler handles the review submission form.
type ReviewHandler struct {
	service  *service.CatalogService
	renderer *Renderer
	logger   *slog.Logger
}

// NewReviewHandler creates a new review form handler.
func NewReviewHandler(svc *service.CatalogService, renderer *Renderer, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:  svc,
		renderer: renderer,
		logger:   logger,
	}
}

// CreateReviewForm is the form body for submitting a review.
type CreateReviewForm struct {
	UserName   string `validate:"required,min=1,max=100"`
	Rating     int    `validate:"gte=1,lte=5"`
	ReviewText string `validate:"required,max=5000"`
}

// CreateReview handles POST /review/{id} and redirects back to the
// product page.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, err := parseProductID(r)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("malformed form data"))
		return
	}

	form := CreateReviewForm{
		UserName:   r.PostFormValue("user_name"),
		ReviewText: r.PostFormValue("review_text"),
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		h.redisplayForm(w, r, productID, form, "rating must be a whole number")
		return
	}
	form.Rating = rating

	// A signed-in visitor reviews under their own identity; the form
	// field is ignored.
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		form.UserName = identity.DisplayName
		if form.UserName == "" {
			form.UserName = identity.Subject
		}
	}

	if err := validator.Validate(form); err != nil {
		h.redisplayForm(w, r, productID, form, err.Error())
		return
	}

	if _, err := h.service.CreateReview(r.Context(), &service.CreateReviewInput{
		ProductID:  productID,
		UserName:   form.UserName,
		Rating:     form.Rating,
		ReviewText: form.ReviewText,
	}); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/"+strconv.FormatInt(productID, 10), http.StatusSeeOther)
}

// redisplayForm re-renders the product page with the submitted review
// values and a validation message.
func (h *ReviewHandler) redisplayForm(w http.ResponseWriter, r *http.Request, productID int64, form CreateReviewForm, message string) {
	detail, err := h.service.GetProductDetail(r.Context(), productID)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	h.renderer.HTML(w, r, http.StatusBadRequest, pageDetails, detailsPageData{
		Identity:  identity,
		Detail:    detail,
		CSRFToken: middleware.TokenFromContext(r.Context()),
		Error:     message,
		Form:      form,
	})
}

package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/opencatalog/catalog/internal/auth"
	"github.com/opencatalog/catalog/internal/domain"
	"github.com/opencatalog/catalog/internal/service"
	apperrors "github.com/opencatalog/catalog/pkg/errors"
	"github.com/opencatalog/catalog/pkg/middleware"
	"github.com/opencatalog/catalog/pkg/validator"
)

// ProductHandler handles the product pages and the add-product form.
type ProductHandler struct {
	service  *service.CatalogService
	renderer *Renderer
	logger   *slog.Logger
}

// NewProductHandler creates a new product page handler.
func NewProductHandler(svc *service.CatalogService, renderer *Renderer, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		renderer: renderer,
		logger:   logger,
	}
}

// CreateProductForm is the form body for adding a product.
type CreateProductForm struct {
	Name        string `validate:"required,min=1,max=500"`
	Description string `validate:"required,max=5000"`
}

type indexPageData struct {
	Identity *auth.Identity
	Items    []domain.ProductListItem
}

type detailsPageData struct {
	Identity  *auth.Identity
	Detail    *domain.ProductDetail
	CSRFToken string
	Error     string
	Form      CreateReviewForm
}

type createProductPageData struct {
	Identity  *auth.Identity
	CSRFToken string
	Error     string
	Form      CreateProductForm
}

// Index handles GET / and renders the product list.
func (h *ProductHandler) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	h.renderer.HTML(w, r, http.StatusOK, pageIndex, indexPageData{
		Identity: identity,
		Items:    items,
	})
}

// Detail handles GET /{id} and renders the product page with its reviews.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	detail, err := h.service.GetProductDetail(r.Context(), id)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	h.renderer.HTML(w, r, http.StatusOK, pageDetails, detailsPageData{
		Identity:  identity,
		Detail:    detail,
		CSRFToken: middleware.TokenFromContext(r.Context()),
	})
}

// NewProductForm handles GET /create and renders the add-product form.
func (h *ProductHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())
	h.renderer.HTML(w, r, http.StatusOK, pageCreateProduct, createProductPageData{
		Identity:  identity,
		CSRFToken: middleware.TokenFromContext(r.Context()),
	})
}

// CreateProduct handles POST /add and redirects to the new product's page.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Error(w, r, apperrors.InvalidInput("malformed form data"))
		return
	}

	form := CreateProductForm{
		Name:        r.PostFormValue("product_name"),
		Description: r.PostFormValue("description"),
	}
	if err := validator.Validate(form); err != nil {
		h.redisplayForm(w, r, form, err.Error())
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        form.Name,
		Description: form.Description,
	})
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/"+strconv.FormatInt(product.ID, 10), http.StatusSeeOther)
}

// redisplayForm re-renders the add-product form with the submitted
// values and a validation message.
func (h *ProductHandler) redisplayForm(w http.ResponseWriter, r *http.Request, form CreateProductForm, message string) {
	identity, _ := auth.IdentityFromContext(r.Context())
	h.renderer.HTML(w, r, http.StatusBadRequest, pageCreateProduct, createProductPageData{
		Identity:  identity,
		CSRFToken: middleware.TokenFromContext(r.Context()),
		Error:     message,
		Form:      form,
	})
}

// parseProductID reads the {id} path parameter. Non-numeric values map to
// not found, like any other unknown product path.
func parseProductID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NotFound("product", 0)
	}
	return id, nil
}

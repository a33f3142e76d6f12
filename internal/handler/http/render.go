package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/opencatalog/catalog/internal/auth"
	apperrors "github.com/opencatalog/catalog/pkg/errors"
	"github.com/opencatalog/catalog/web"
)

// Page template file names.
const (
	pageIndex         = "index.html"
	pageDetails       = "details.html"
	pageCreateProduct = "create_product.html"
	pageError         = "error.html"
)

var templateFuncs = template.FuncMap{
	// starsPercent maps a whole-star rating onto a 0-100 width for the
	// star bar.
	"starsPercent": func(rating int) int {
		return rating * 20
	},
}

// Renderer executes the embedded HTML templates.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page template against the shared layout.
func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{pageIndex, pageDetails, pageCreateProduct, pageError} {
		tmpl, err := template.New(page).Funcs(templateFuncs).ParseFS(web.FS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// HTML renders a page template with the given data.
func (rn *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.ErrorContext(r.Context(), "unknown page template",
			slog.String("page", page),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		rn.logger.ErrorContext(r.Context(), "failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// errorPageData feeds the error template.
type errorPageData struct {
	Identity   *auth.Identity
	Status     int
	StatusText string
	Message    string
}

// Error renders the error page for the given error, mapping it to an
// HTTP status. Internal errors get a generic message.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)

	message := "Something went wrong. Please try again."
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		message = appErr.Message
	}

	if status >= http.StatusInternalServerError {
		rn.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	rn.HTML(w, r, status, pageError, errorPageData{
		Identity:   identity,
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    message,
	})
}

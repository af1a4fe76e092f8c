package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LautaroYamil/trabajo-practico-2/internal/catalog"
	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/httputil"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/slug"
)

// ProductHandler serves the read-only catalog.
type ProductHandler struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(c catalog.Catalog, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: c, logger: logger}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{ref}, where ref is a numeric id
// or a product slug.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var (
		product *domain.Product
		err     error
	)
	if _, convErr := strconv.Atoi(ref); convErr == nil {
		id, ok := httputil.ParseID(w, ref)
		if !ok {
			return
		}
		product, err = h.catalog.Get(r.Context(), id)
	} else {
		if !slug.Valid(ref) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_PARAMETER",
					Message: "product reference must be a positive id or a lowercase slug",
				},
			})
			return
		}
		product, err = h.catalog.GetBySlug(r.Context(), ref)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

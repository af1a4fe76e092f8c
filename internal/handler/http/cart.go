package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LautaroYamil/trabajo-practico-2/internal/cart"
	"github.com/LautaroYamil/trabajo-practico-2/internal/catalog"
	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/notify"
	"github.com/LautaroYamil/trabajo-practico-2/internal/session"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/httputil"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/pagination"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/validator"
)

// CartHandler handles HTTP requests for cart, checkout and order endpoints.
type CartHandler struct {
	sessions *session.Registry
	catalog  catalog.Catalog
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(sessions *session.Registry, c catalog.Catalog, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		catalog:  c,
		logger:   logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
// A missing quantity means one unit; an explicit zero is rejected.
type AddItemRequest struct {
	ProductID int  `json:"product_id" validate:"required,gt=0"`
	Quantity  *int `json:"quantity,omitempty" validate:"omitempty,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for setting a line's
// quantity. Zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CheckoutRequest is the JSON request body for placing an order.
type CheckoutRequest = domain.CheckoutInput

// --- Response payloads ---

// CartResponse is returned by every cart endpoint. Notification carries the
// toast the cart emitted for the operation, if any.
type CartResponse struct {
	Cart         domain.CartView      `json:"cart"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// CheckoutResponse is returned by a successful checkout.
type CheckoutResponse struct {
	Order        *domain.Order        `json:"order"`
	PaymentName  string               `json:"payment_name"`
	Cart         domain.CartView      `json:"cart"`
	Notification *domain.Notification `json:"notification,omitempty"`
}

// outcome is what a session operation leaves behind for the response.
type outcome struct {
	view         domain.CartView
	notification *domain.Notification
}

func capture(store *cart.Store, rec *notify.Recorder) outcome {
	out := outcome{view: store.View()}
	if n, ok := rec.LastNotification(); ok {
		out.notification = &n
	}
	return out
}

// mutate runs fn against the caller's cart and writes the cart response.
// Failures keep the current view and the error toast in the payload next to
// the error envelope.
func (h *CartHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(store *cart.Store) error) {
	var out outcome
	err := h.sessions.Do(r.Context(), sessionFromContext(r), func(store *cart.Store, rec *notify.Recorder) error {
		opErr := fn(store)
		out = capture(store, rec)
		return opErr
	})
	h.writeOutcome(w, r, out, err)
}

func (h *CartHandler) writeOutcome(w http.ResponseWriter, r *http.Request, out outcome, err error) {
	data := CartResponse{Cart: out.view, Notification: out.notification}
	if err != nil {
		httputil.WriteErrorWithData(w, r, err, data, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: data})
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(*cart.Store) error { return nil })
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.mutate(w, r, func(store *cart.Store) error {
		return store.AddItem(r.Context(), *product, quantity)
	})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	h.mutate(w, r, func(store *cart.Store) error {
		return store.UpdateQuantity(r.Context(), id, *req.Quantity)
	})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	h.mutate(w, r, func(store *cart.Store) error {
		return store.RemoveItem(r.Context(), id)
	})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(store *cart.Store) error {
		return store.ClearCart(r.Context())
	})
}

// Checkout handles POST /api/v1/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	var (
		out   outcome
		order *domain.Order
	)
	err := h.sessions.Do(r.Context(), sessionFromContext(r), func(store *cart.Store, rec *notify.Recorder) error {
		var opErr error
		order, opErr = store.Checkout(r.Context(), req.Form())
		out = capture(store, rec)
		return opErr
	})
	if err != nil {
		h.writeOutcome(w, r, out, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: CheckoutResponse{
		Order:        order,
		PaymentName:  order.PaymentName(),
		Cart:         out.view,
		Notification: out.notification,
	}})
}

// ListOrders handles GET /api/v1/orders?page=&per_page=
func (h *CartHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	var orders []domain.Order
	err := h.sessions.Do(r.Context(), sessionFromContext(r), func(store *cart.Store, _ *notify.Recorder) error {
		var opErr error
		orders, opErr = store.Orders(r.Context())
		return opErr
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pagination.Slice(orders, params)})
}

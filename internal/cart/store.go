// Package cart holds the shopping cart state and pricing rules. A Store is a
// synchronous, lock-free state object: callers that share one across
// goroutines must serialize access themselves (see internal/session).
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/notify"
	"github.com/LautaroYamil/trabajo-practico-2/internal/repository"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// MaxQuantityPerItem is the largest quantity a single line item may hold.
const MaxQuantityPerItem = 100

// User-facing notification messages.
const (
	MsgItemAdded      = "Producto agregado al carrito"
	MsgAddFailed      = "Error al agregar producto"
	MsgItemRemoved    = "Producto removido"
	MsgUpdateFailed   = "Error al actualizar el carrito"
	MsgEmptyCart      = "Tu carrito está vacío"
	MsgCheckoutFailed = "Error al confirmar pedido"
	MsgOrderPlaced    = "¡Pedido confirmado!"
)

// ShippingRule charges Fee unless the subtotal is strictly greater than FreeAbove.
type ShippingRule struct {
	FreeAbove int64
	Fee       int64
}

// DefaultShippingRule is the shop's standard rule: free shipping above $15.000.
var DefaultShippingRule = ShippingRule{FreeAbove: 15000, Fee: 1500}

// Store is the cart of one shopper.
type Store struct {
	kv       storage.Store
	orders   repository.OrderRepository
	listener notify.Listener
	logger   *slog.Logger

	items []domain.LineItem

	shipping    ShippingRule
	maxQuantity int
	now         func() time.Time
	loc         *time.Location
	orderIDs    *OrderIDs
}

// Option configures a Store.
type Option func(*Store)

// WithShippingRule overrides DefaultShippingRule.
func WithShippingRule(r ShippingRule) Option {
	return func(s *Store) { s.shipping = r }
}

// WithMaxQuantity overrides MaxQuantityPerItem. Values below 1 are ignored.
func WithMaxQuantity(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.maxQuantity = n
		}
	}
}

// WithClock sets the time source used for order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone order dates are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithOrderIDs replaces the process-wide order ID generator.
func WithOrderIDs(ids *OrderIDs) Option {
	return func(s *Store) { s.orderIDs = ids }
}

// New creates a Store and restores the persisted cart. A missing or corrupt
// cart yields an empty one; the problem is logged and never returned.
func New(ctx context.Context, kv storage.Store, orders repository.OrderRepository, listener notify.Listener, log *slog.Logger, opts ...Option) *Store {
	if listener == nil {
		listener = notify.Nop{}
	}
	if log == nil {
		log = logger.Discard()
	}

	s := &Store{
		kv:          kv,
		orders:      orders,
		listener:    listener,
		logger:      log,
		shipping:    DefaultShippingRule,
		maxQuantity: MaxQuantityPerItem,
		now:         time.Now,
		loc:         defaultLocation(),
		orderIDs:    defaultOrderIDs,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.items = s.load(ctx)
	return s
}

func (s *Store) log(ctx context.Context) *slog.Logger {
	return logger.WithContext(ctx, s.logger)
}

// load reads the persisted cart, dropping entries with a non-positive
// quantity and merging repeated product IDs into one line.
func (s *Store) load(ctx context.Context) []domain.LineItem {
	raw, err := s.kv.Get(ctx, storage.KeyCart)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log(ctx).WarnContext(ctx, "cart could not be loaded, starting empty",
				slog.String("error", err.Error()),
			)
		}
		return []domain.LineItem{}
	}

	var stored []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log(ctx).WarnContext(ctx, "stored cart is corrupt, starting empty",
			slog.String("error", err.Error()),
		)
		return []domain.LineItem{}
	}

	items := make([]domain.LineItem, 0, len(stored))
	index := make(map[int]int, len(stored))
	for _, it := range stored {
		if it.Quantity < 1 {
			continue
		}
		if i, ok := index[it.ID]; ok {
			items[i].Quantity += it.Quantity
			continue
		}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if len(items) != len(stored) {
		s.log(ctx).InfoContext(ctx, "stored cart normalized",
			slog.Int("stored_lines", len(stored)),
			slog.Int("lines", len(items)),
		)
	}
	return items
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.kv.Set(ctx, storage.KeyCart, string(data)); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to persist cart",
			slog.Int("lines", len(s.items)),
			slog.String("error", err.Error()),
		)
		return apperrors.Persistence("cart", err)
	}
	return nil
}

func (s *Store) find(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) fail(ctx context.Context, message string) {
	s.listener.Notify(ctx, domain.Notification{Kind: domain.NotificationError, Message: message})
}

// commit persists the items and publishes the new view. The view is
// published even when persisting fails, because the in-memory cart has
// changed either way.
func (s *Store) commit(ctx context.Context) error {
	err := s.persist(ctx)
	s.listener.CartChanged(ctx, s.View())
	return err
}

// AddItem adds quantity units of p. An existing line for the same product
// only has its quantity increased; its catalog fields stay as first added.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) error {
	if quantity < 1 {
		s.fail(ctx, MsgAddFailed)
		return apperrors.InvalidInput("quantity must be greater than 0")
	}
	if quantity > s.maxQuantity {
		s.fail(ctx, MsgAddFailed)
		return apperrors.InvalidInput(quantityLimitMessage(s.maxQuantity))
	}

	if i := s.find(p.ID); i >= 0 {
		if s.items[i].Quantity+quantity > s.maxQuantity {
			s.fail(ctx, MsgAddFailed)
			return apperrors.InvalidInput(quantityLimitMessage(s.maxQuantity))
		}
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.NewLineItem(p, quantity))
	}

	if err := s.commit(ctx); err != nil {
		s.fail(ctx, MsgAddFailed)
		return err
	}

	s.listener.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgItemAdded})
	return nil
}

// RemoveItem deletes the line for id. Removing an absent product is not an
// error and produces the same notifications as a real removal.
func (s *Store) RemoveItem(ctx context.Context, id int) error {
	if i := s.find(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}

	if err := s.commit(ctx); err != nil {
		s.fail(ctx, MsgUpdateFailed)
		return err
	}

	s.listener.Notify(ctx, domain.Notification{Kind: domain.NotificationInfo, Message: MsgItemRemoved})
	return nil
}

// UpdateQuantity sets the quantity of the line for id. A quantity of zero or
// less removes the line. Unknown IDs are ignored without side effects.
// Success is reported through CartChanged only.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}

	i := s.find(id)
	if i < 0 {
		return nil
	}
	if quantity > s.maxQuantity {
		s.fail(ctx, MsgUpdateFailed)
		return apperrors.InvalidInput(quantityLimitMessage(s.maxQuantity))
	}
	s.items[i].Quantity = quantity

	if err := s.commit(ctx); err != nil {
		s.fail(ctx, MsgUpdateFailed)
		return err
	}
	return nil
}

// ClearCart removes every line.
func (s *Store) ClearCart(ctx context.Context) error {
	s.items = []domain.LineItem{}

	if err := s.commit(ctx); err != nil {
		s.fail(ctx, MsgUpdateFailed)
		return err
	}
	return nil
}

// ItemCount is the sum of all quantities.
func (s *Store) ItemCount() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	return domain.CloneItems(s.items)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

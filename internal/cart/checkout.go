package cart

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
)

// OrderDateLayout renders order dates the way es-AR locales print them.
const OrderDateLayout = "2/1/2006, 15:04:05"

const storeTimeZone = "America/Argentina/Buenos_Aires"

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(storeTimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// OrderIDs hands out "ORD-<unix millis>" identifiers that are strictly
// increasing, even when two checkouts land in the same millisecond.
type OrderIDs struct {
	last atomic.Int64
	now  func() time.Time
}

// NewOrderIDs creates a generator reading the given clock.
func NewOrderIDs(now func() time.Time) *OrderIDs {
	return &OrderIDs{now: now}
}

var defaultOrderIDs = NewOrderIDs(time.Now)

// Next returns the next order ID.
func (g *OrderIDs) Next() string {
	for {
		prev := g.last.Load()
		ms := g.now().UnixMilli()
		if ms <= prev {
			ms = prev + 1
		}
		if g.last.CompareAndSwap(prev, ms) {
			return "ORD-" + strconv.FormatInt(ms, 10)
		}
	}
}

// Checkout records the current cart as an order and empties the cart.
//
// The cart is cleared only after the order has been appended to the
// history; if the append fails the cart is left untouched. An empty cart is
// rejected with an EMPTY_CART error and nothing is written.
func (s *Store) Checkout(ctx context.Context, form domain.CheckoutForm) (*domain.Order, error) {
	if len(s.items) == 0 {
		s.fail(ctx, MsgEmptyCart)
		return nil, apperrors.EmptyCart()
	}

	order := &domain.Order{
		OrderID:   s.orderIDs.Next(),
		OrderDate: s.now().In(s.loc).Format(OrderDateLayout),
		Customer:  form.Customer,
		Payment:   form.Payment,
		Notes:     form.Notes,
		Items:     domain.CloneItems(s.items),
		Totals:    s.CalculateTotals(),
	}

	if err := s.orders.Append(ctx, order); err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to record order",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
		s.fail(ctx, MsgCheckoutFailed)
		return nil, apperrors.Persistence("order", err)
	}

	// The order is already recorded, so a failure to persist the emptied
	// cart is logged rather than reported as a failed checkout.
	s.items = []domain.LineItem{}
	if err := s.commit(ctx); err != nil {
		s.log(ctx).WarnContext(ctx, "order recorded but cart could not be cleared",
			slog.String("order_id", order.OrderID),
			slog.String("error", err.Error()),
		)
	}

	s.listener.CheckoutCompleted(ctx, order)
	s.listener.Notify(ctx, domain.Notification{Kind: domain.NotificationSuccess, Message: MsgOrderPlaced})
	return order, nil
}

// Orders returns the recorded order history, oldest first.
func (s *Store) Orders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

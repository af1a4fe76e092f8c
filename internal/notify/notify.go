// Package notify carries cart state changes from the cart store to whatever
// presents them: an HTTP response, a terminal, a metrics registry, a broker.
package notify

import (
	"context"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
)

// Listener observes a cart store. Methods are called synchronously from the
// store's mutating operations and must not call back into the store.
type Listener interface {
	// CartChanged receives the full view after every mutation.
	CartChanged(ctx context.Context, view domain.CartView)

	// Notify receives one classified message per completed operation that
	// reports to the user.
	Notify(ctx context.Context, n domain.Notification)

	// CheckoutCompleted receives the order recorded by a successful checkout.
	CheckoutCompleted(ctx context.Context, order *domain.Order)
}

// Nop ignores every callback.
type Nop struct{}

func (Nop) CartChanged(context.Context, domain.CartView)      {}
func (Nop) Notify(context.Context, domain.Notification)       {}
func (Nop) CheckoutCompleted(context.Context, *domain.Order) {}

// Multi fans every callback out to each listener in order.
type Multi []Listener

// Fanout builds a Multi, skipping nil listeners.
func Fanout(listeners ...Listener) Multi {
	out := make(Multi, 0, len(listeners))
	for _, l := range listeners {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (m Multi) CartChanged(ctx context.Context, view domain.CartView) {
	for _, l := range m {
		l.CartChanged(ctx, view)
	}
}

func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, l := range m {
		l.Notify(ctx, n)
	}
}

func (m Multi) CheckoutCompleted(ctx context.Context, order *domain.Order) {
	for _, l := range m {
		l.CheckoutCompleted(ctx, order)
	}
}

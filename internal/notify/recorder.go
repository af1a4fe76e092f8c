package notify

import (
	"context"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
)

// Recorder keeps every callback it receives. It is not safe for concurrent
// use; callers serialize access the same way they serialize the store.
type Recorder struct {
	Views         []domain.CartView
	Notifications []domain.Notification
	Orders        []*domain.Order
}

func (r *Recorder) CartChanged(_ context.Context, view domain.CartView) {
	r.Views = append(r.Views, view)
}

func (r *Recorder) Notify(_ context.Context, n domain.Notification) {
	r.Notifications = append(r.Notifications, n)
}

func (r *Recorder) CheckoutCompleted(_ context.Context, order *domain.Order) {
	r.Orders = append(r.Orders, order)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Views = nil
	r.Notifications = nil
	r.Orders = nil
}

// LastNotification returns the most recent notification, if any.
func (r *Recorder) LastNotification() (domain.Notification, bool) {
	if len(r.Notifications) == 0 {
		return domain.Notification{}, false
	}
	return r.Notifications[len(r.Notifications)-1], true
}

// LastView returns the most recent view, if any.
func (r *Recorder) LastView() (domain.CartView, bool) {
	if len(r.Views) == 0 {
		return domain.CartView{}, false
	}
	return r.Views[len(r.Views)-1], true
}

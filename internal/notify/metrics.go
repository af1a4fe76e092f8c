package notify

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
)

// Metrics exports cart activity as Prometheus series.
type Metrics struct {
	notifications *prometheus.CounterVec
	changes       prometheus.Counter
	orders        prometheus.Counter
	orderTotal    prometheus.Histogram
	freeShipping  prometheus.Counter
}

// NewMetrics registers the cart series on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_notifications_total",
			Help: "Cart notifications emitted, by kind",
		}, []string{"kind"}),
		changes: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_changes_total",
			Help: "Cart mutations that produced a new view",
		}),
		orders: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_total",
			Help: "Orders recorded by checkout",
		}),
		orderTotal: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_order_total_amount",
			Help:    "Grand total of recorded orders, in pesos",
			Buckets: []float64{2500, 5000, 10000, 15000, 25000, 50000, 100000},
		}),
		freeShipping: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_free_shipping_total",
			Help: "Orders that qualified for free shipping",
		}),
	}
}

func (m *Metrics) CartChanged(context.Context, domain.CartView) {
	m.changes.Inc()
}

func (m *Metrics) Notify(_ context.Context, n domain.Notification) {
	m.notifications.WithLabelValues(string(n.Kind)).Inc()
}

func (m *Metrics) CheckoutCompleted(_ context.Context, order *domain.Order) {
	m.orders.Inc()
	m.orderTotal.Observe(float64(order.Totals.Total))
	if order.Totals.Shipping == 0 {
		m.freeShipping.Inc()
	}
}

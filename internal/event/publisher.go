package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	pkgkafka "github.com/LautaroYamil/trabajo-practico-2/pkg/kafka"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// localSession keys events from stores that are not bound to an HTTP session.
const localSession = "local"

// Publisher is satisfied by *pkgkafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// BreakerConfig controls when publishing is suspended after broker failures.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig trips after half of at least five publishes fail and
// probes again after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "kafka-publisher",
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Listener publishes cart and order events. It implements notify.Listener.
// Publish failures never reach the cart: they are logged and counted by the
// breaker, which skips the broker entirely while open.
type Listener struct {
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	logger    *slog.Logger
}

// NewListener wraps publisher in a circuit breaker.
func NewListener(publisher Publisher, cfg BreakerConfig, log *slog.Logger) *Listener {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Listener{
		publisher: publisher,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:    log,
	}
}

// State reports the breaker state.
func (l *Listener) State() gobreaker.State {
	return l.breaker.State()
}

func sessionOf(ctx context.Context) string {
	if id := logger.SessionIDFromContext(ctx); id != "" {
		return id
	}
	return localSession
}

// CartChanged publishes cart.cleared for an empty cart and cart.updated otherwise.
func (l *Listener) CartChanged(ctx context.Context, view domain.CartView) {
	session := sessionOf(ctx)

	if len(view.Lines) == 0 {
		l.publish(ctx, TopicCartCleared, TypeCartCleared, session, AggregateCart, CartClearedData{SessionID: session})
		return
	}

	l.publish(ctx, TopicCartUpdated, TypeCartUpdated, session, AggregateCart, CartUpdatedData{
		SessionID: session,
		Items:     linesData(view.Lines),
		ItemCount: view.ItemCount,
		Subtotal:  view.Totals.Subtotal,
		Shipping:  view.Totals.Shipping,
		Total:     view.Totals.Total,
	})
}

// Notify is a no-op: toasts are not domain events.
func (l *Listener) Notify(context.Context, domain.Notification) {}

// CheckoutCompleted publishes order.placed.
func (l *Listener) CheckoutCompleted(ctx context.Context, order *domain.Order) {
	l.publish(ctx, TopicOrderPlaced, TypeOrderPlaced, order.OrderID, AggregateOrder, OrderPlacedData{
		OrderID:   order.OrderID,
		OrderDate: order.OrderDate,
		SessionID: logger.SessionIDFromContext(ctx),
		Province:  order.Customer.Province,
		Payment:   order.Payment,
		Items:     itemsData(order.Items),
		Subtotal:  order.Totals.Subtotal,
		Shipping:  order.Totals.Shipping,
		Total:     order.Totals.Total,
	})
}

func (l *Listener) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	err := l.send(ctx, topic, eventType, aggregateID, aggregateType, data)
	if err == nil {
		return
	}

	log := logger.WithContext(ctx, l.logger)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		log.DebugContext(ctx, "event dropped, publisher circuit open",
			slog.String("event_type", eventType),
		)
		return
	}
	log.WarnContext(ctx, "failed to publish event",
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

func (l *Listener) send(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	if id := logger.SessionIDFromContext(ctx); id != "" {
		evt.WithMetadata("session_id", id)
	}

	_, err = l.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, l.publisher.Publish(ctx, topic, evt)
	})
	return err
}

package notify

import (
	"context"
	"log/slog"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// Logging writes cart activity to a structured logger.
type Logging struct {
	logger *slog.Logger
}

// NewLogging creates a listener logging through l.
func NewLogging(l *slog.Logger) *Logging {
	return &Logging{logger: l}
}

func (l *Logging) CartChanged(ctx context.Context, view domain.CartView) {
	logger.WithContext(ctx, l.logger).DebugContext(ctx, "cart changed",
		slog.Int("lines", len(view.Lines)),
		slog.Int("item_count", view.ItemCount),
		slog.Int64("total", view.Totals.Total),
	)
}

func (l *Logging) Notify(ctx context.Context, n domain.Notification) {
	level := slog.LevelInfo
	if n.Kind == domain.NotificationError {
		level = slog.LevelWarn
	}
	logger.WithContext(ctx, l.logger).Log(ctx, level, "cart notification",
		slog.String("kind", string(n.Kind)),
		slog.String("message", n.Message),
	)
}

func (l *Logging) CheckoutCompleted(ctx context.Context, order *domain.Order) {
	logger.WithContext(ctx, l.logger).InfoContext(ctx, "order placed",
		slog.String("order_id", order.OrderID),
		slog.Int("lines", len(order.Items)),
		slog.Int64("total", order.Totals.Total),
		slog.String("payment", order.Payment),
	)
}

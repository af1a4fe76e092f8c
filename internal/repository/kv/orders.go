package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/storage"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/logger"
)

// OrderRepository keeps the order history as one JSON array under the
// storage.KeyOrders key.
type OrderRepository struct {
	store  storage.Store
	logger *slog.Logger
}

// NewOrderRepository creates a key-value backed order history. A nil log
// discards output.
func NewOrderRepository(store storage.Store, log *slog.Logger) *OrderRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &OrderRepository{
		store:  store,
		logger: log,
	}
}

// Append reads the stored history, appends order and writes it back.
// A missing or corrupt history is replaced by a fresh one; a failed read is
// returned so an unreachable store never overwrites existing orders.
func (r *OrderRepository) Append(ctx context.Context, order *domain.Order) error {
	orders, err := r.load(ctx)
	if err != nil {
		return err
	}
	orders = append(orders, *order)

	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyOrders, string(data)); err != nil {
		return fmt.Errorf("save orders: %w", err)
	}
	return nil
}

// List returns the stored history; corrupt data yields an empty list.
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.load(ctx)
}

func (r *OrderRepository) load(ctx context.Context) ([]domain.Order, error) {
	raw, err := r.store.Get(ctx, storage.KeyOrders)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Order{}, nil
		}
		return nil, fmt.Errorf("load orders: %w", err)
	}

	var orders []domain.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		r.logger.WarnContext(ctx, "order history corrupt, starting a new one",
			slog.String("error", err.Error()),
		)
		return []domain.Order{}, nil
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

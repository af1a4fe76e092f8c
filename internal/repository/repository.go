package repository

import (
	"context"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
)

// OrderRepository is the append-only history of placed orders.
type OrderRepository interface {
	// Append records an order. Orders are never updated or removed.
	Append(ctx context.Context, order *domain.Order) error

	// List returns every recorded order, oldest first.
	List(ctx context.Context) ([]domain.Order, error)
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/database"
)

const (
	insertOrderSQL = `
		INSERT INTO orders (order_id, owner, order_date, customer, payment, notes, items, subtotal, shipping, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	listOrdersSQL = `
		SELECT order_id, order_date, customer, payment, notes, items, subtotal, shipping, total
		FROM orders
		WHERE owner = $1
		ORDER BY created_at, order_id`
)

// OrderRepository stores the order history in PostgreSQL, one row per order
// with the customer and item snapshot kept as JSONB. Every row belongs to an
// owner and a repository only sees its own owner's rows.
type OrderRepository struct {
	pool  database.DBTX
	owner string
	now   func() time.Time
}

// NewOrderRepository creates a PostgreSQL-backed order history for the
// empty owner.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool, now: time.Now}
}

// ForOwner returns a repository sharing the pool but scoped to owner,
// typically a session ID.
func (r *OrderRepository) ForOwner(owner string) *OrderRepository {
	return &OrderRepository{pool: r.pool, owner: owner, now: r.now}
}

// Append inserts the order. A duplicate order ID is reported as an error.
func (r *OrderRepository) Append(ctx context.Context, o *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, "AppendOrder", insertOrderSQL)
	defer func() { end(err) }()

	customerJSON, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	items := o.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = r.pool.Exec(ctx, insertOrderSQL,
		o.OrderID,
		r.owner,
		o.OrderDate,
		customerJSON,
		o.Payment,
		o.Notes,
		itemsJSON,
		o.Totals.Subtotal,
		o.Totals.Shipping,
		o.Totals.Total,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.OrderID, err)
	}
	return nil
}

// List returns the owner's orders, oldest first.
func (r *OrderRepository) List(ctx context.Context) (_ []domain.Order, err error) {
	ctx, end := database.TraceQuery(ctx, "ListOrders", listOrdersSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listOrdersSQL, r.owner)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		var (
			o                       domain.Order
			customerJSON, itemsJSON []byte
		)
		if err := rows.Scan(
			&o.OrderID,
			&o.OrderDate,
			&customerJSON,
			&o.Payment,
			&o.Notes,
			&itemsJSON,
			&o.Totals.Subtotal,
			&o.Totals.Shipping,
			&o.Totals.Total,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
			return nil, fmt.Errorf("unmarshal customer of %s: %w", o.OrderID, err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items of %s: %w", o.OrderID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

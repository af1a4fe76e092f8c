// Package event turns cart activity into Kafka domain events.
package event

import (
	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	pkgkafka "github.com/LautaroYamil/trabajo-practico-2/pkg/kafka"
)

// Topics for storefront domain events.
var (
	TopicCartUpdated = pkgkafka.Topic("cart", "updated")
	TopicCartCleared = pkgkafka.Topic("cart", "cleared")
	TopicOrderPlaced = pkgkafka.Topic("order", "placed")
)

// Event types and aggregates.
const (
	TypeCartUpdated = "cart.updated"
	TypeCartCleared = "cart.cleared"
	TypeOrderPlaced = "order.placed"

	AggregateCart  = "cart"
	AggregateOrder = "order"

	Source = "storefront"
)

// ItemData is one line in an event payload.
type ItemData struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartUpdatedData is the cart.updated payload.
type CartUpdatedData struct {
	SessionID string     `json:"session_id"`
	Items     []ItemData `json:"items"`
	ItemCount int        `json:"item_count"`
	Subtotal  int64      `json:"subtotal"`
	Shipping  int64      `json:"shipping"`
	Total     int64      `json:"total"`
}

// CartClearedData is the cart.cleared payload.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderPlacedData is the order.placed payload. It carries no customer
// contact details.
type OrderPlacedData struct {
	OrderID   string     `json:"order_id"`
	OrderDate string     `json:"order_date"`
	SessionID string     `json:"session_id,omitempty"`
	Province  string     `json:"province"`
	Payment   string     `json:"payment"`
	Items     []ItemData `json:"items"`
	Subtotal  int64      `json:"subtotal"`
	Shipping  int64      `json:"shipping"`
	Total     int64      `json:"total"`
}

func itemsData(items []domain.LineItem) []ItemData {
	out := make([]ItemData, len(items))
	for i, it := range items {
		out[i] = ItemData{
			ProductID: it.ID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}
	return out
}

func linesData(lines []domain.CartLine) []ItemData {
	items := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		items[i] = l.LineItem
	}
	return itemsData(items)
}

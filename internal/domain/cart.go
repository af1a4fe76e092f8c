package domain

import "slices"

// LineItem is one product entry in the cart. All catalog fields are copied
// at add time and never refreshed; only Quantity changes afterwards.
type LineItem struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Price        string   `json:"price"`
	Description  string   `json:"description,omitempty"`
	Material     string   `json:"material,omitempty"`
	Capacity     string   `json:"capacity,omitempty"`
	Origin       string   `json:"origin,omitempty"`
	Availability string   `json:"availability,omitempty"`
	MainImage    string   `json:"mainImage,omitempty"`
	Thumbnails   []string `json:"thumbnails,omitempty"`
	Quantity     int      `json:"quantity"`
}

// NewLineItem copies every field of p into a new line item.
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price,
		Description:  p.Description,
		Material:     p.Material,
		Capacity:     p.Capacity,
		Origin:       p.Origin,
		Availability: p.Availability,
		MainImage:    p.MainImage,
		Thumbnails:   slices.Clone(p.Thumbnails),
		Quantity:     quantity,
	}
}

// CloneItems deep-copies a line item slice so the copy shares no backing
// arrays with the original.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		it.Thumbnails = slices.Clone(it.Thumbnails)
		out[i] = it
	}
	return out
}

// Totals is derived from the cart contents; it is never stored on its own.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// CartLine is a line item prepared for display.
type CartLine struct {
	LineItem
	UnitPrice      int64  `json:"unitPrice"`
	LineTotal      int64  `json:"lineTotal"`
	LineTotalLabel string `json:"lineTotalLabel"`
}

// CartView is everything a UI needs to redraw the cart after a change.
type CartView struct {
	Lines                 []CartLine `json:"lines"`
	Totals                Totals     `json:"totals"`
	ItemCount             int        `json:"itemCount"`
	CounterLabel          string     `json:"counterLabel"`
	FreeShipping          bool       `json:"freeShipping"`
	FreeShippingRemaining int64      `json:"freeShippingRemaining"`
	SubtotalLabel         string     `json:"subtotalLabel"`
	ShippingLabel         string     `json:"shippingLabel"`
	TotalLabel            string     `json:"totalLabel"`
}

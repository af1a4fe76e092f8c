package cart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/price"
)

const counterLimit = 99

// CalculateTotals sums every line's parsed price times its quantity and
// applies the shipping rule. If any sum overflows int64 it returns zero totals.
func (s *Store) CalculateTotals() domain.Totals {
	subtotal, ok := subtotalOf(s.items)
	if !ok {
		s.logger.Warn("cart totals overflowed, reporting zero")
		return domain.Totals{}
	}

	shipping := s.shipping.Fee
	if subtotal > s.shipping.FreeAbove {
		shipping = 0
	}
	if subtotal > math.MaxInt64-shipping {
		s.logger.Warn("cart totals overflowed, reporting zero")
		return domain.Totals{}
	}

	return domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}

// Total is CalculateTotals().Total.
func (s *Store) Total() int64 {
	return s.CalculateTotals().Total
}

func subtotalOf(items []domain.LineItem) (int64, bool) {
	var sum int64
	for _, it := range items {
		line, ok := lineTotal(price.Parse(it.Price), it.Quantity)
		if !ok || sum > math.MaxInt64-line {
			return 0, false
		}
		sum += line
	}
	return sum, true
}

func lineTotal(unit int64, quantity int) (int64, bool) {
	if quantity <= 0 || unit == 0 {
		return 0, true
	}
	q := int64(quantity)
	if unit > math.MaxInt64/q {
		return 0, false
	}
	return unit * q, true
}

// View assembles everything a UI needs to draw the cart.
func (s *Store) View() domain.CartView {
	totals := s.CalculateTotals()
	count := s.ItemCount()

	lines := make([]domain.CartLine, 0, len(s.items))
	for _, it := range domain.CloneItems(s.items) {
		unit := price.Parse(it.Price)
		lt, _ := lineTotal(unit, it.Quantity)
		lines = append(lines, domain.CartLine{
			LineItem:       it,
			UnitPrice:      unit,
			LineTotal:      lt,
			LineTotalLabel: price.Format(lt),
		})
	}

	view := domain.CartView{
		Lines:         lines,
		Totals:        totals,
		ItemCount:     count,
		CounterLabel:  CounterLabel(count),
		FreeShipping:  totals.Subtotal > s.shipping.FreeAbove,
		SubtotalLabel: price.Format(totals.Subtotal),
		ShippingLabel: price.Format(totals.Shipping),
		TotalLabel:    price.Format(totals.Total),
	}
	if !view.FreeShipping {
		view.FreeShippingRemaining = s.shipping.FreeAbove + 1 - totals.Subtotal
	}
	if totals.Shipping == 0 {
		view.ShippingLabel = "GRATIS"
	}
	return view
}

// CounterLabel renders the navbar badge: empty for zero, "99+" above 99.
func CounterLabel(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > counterLimit:
		return fmt.Sprintf("%d+", counterLimit)
	default:
		return strconv.Itoa(count)
	}
}

func quantityLimitMessage(max int) string {
	return fmt.Sprintf("quantity must not exceed %d", max)
}

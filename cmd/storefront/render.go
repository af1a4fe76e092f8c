package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	humanize "github.com/dustin/go-humanize/english"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	"github.com/LautaroYamil/trabajo-practico-2/internal/price"
)

// toastPrinter writes cart notifications to the terminal. It implements
// notify.Listener.
type toastPrinter struct {
	out io.Writer
}

var toastMarks = map[domain.NotificationKind]string{
	domain.NotificationSuccess: "[ok]",
	domain.NotificationInfo:    "[i]",
	domain.NotificationError:   "[!]",
}

func (p *toastPrinter) CartChanged(context.Context, domain.CartView) {}

func (p *toastPrinter) Notify(_ context.Context, n domain.Notification) {
	fmt.Fprintf(p.out, "%s %s\n", toastMarks[n.Kind], n.Message)
}

func (p *toastPrinter) CheckoutCompleted(context.Context, *domain.Order) {}

func renderProducts(w io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tAVAILABILITY")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Price, p.Availability)
	}
	return tw.Flush()
}

func renderCart(w io.Writer, view domain.CartView) error {
	if len(view.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ID\tPRODUCT\tUNIT\tQTY\tTOTAL\t")
	for _, l := range view.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t\n", l.ID, l.Title, price.Format(l.UnitPrice), l.Quantity, l.LineTotalLabel)
	}
	fmt.Fprintln(tw, "\t\t\t\t\t")
	fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", view.SubtotalLabel)
	fmt.Fprintf(tw, "\t\t\tShipping\t%s\t\n", view.ShippingLabel)
	fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", view.TotalLabel)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s in cart.", pluralItems(view.ItemCount))
	if view.FreeShipping {
		fmt.Fprintln(w, " Free shipping applies.")
	} else {
		fmt.Fprintf(w, " Add %s more for free shipping.\n", price.Format(view.FreeShippingRemaining))
	}
	return nil
}

func renderReceipt(w io.Writer, order *domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nThanks for your purchase, %s!\n\n", order.Customer.Name)
	fmt.Fprintf(tw, "Order\t%s\n", order.OrderID)
	fmt.Fprintf(tw, "Date\t%s\n", order.OrderDate)
	fmt.Fprintf(tw, "Total\t%s\n", price.Format(order.Totals.Total))
	fmt.Fprintf(tw, "Payment\t%s\n", order.PaymentName())
	fmt.Fprintf(tw, "Ship to\t%s, %s\n", order.Customer.Address, order.Customer.Province)
	fmt.Fprintf(tw, "Phone\t%s\n", order.Customer.Phone)
	if order.Notes != "" {
		fmt.Fprintf(tw, "Notes\t%s\n", order.Notes)
	}
	return tw.Flush()
}

func renderOrders(w io.Writer, orders []domain.Order) error {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tDATE\tITEMS\tTOTAL\tPAYMENT")
	for _, o := range orders {
		count := 0
		for _, it := range o.Items {
			count += it.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.OrderID, o.OrderDate, count, price.Format(o.Totals.Total), o.PaymentName())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s placed.\n", humanize.Plural(len(orders), "order", "orders"))
	return nil
}

func pluralItems(n int) string {
	return humanize.Plural(n, "item", "items")
}

func joinFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("--%s %s", name, fields[name]))
	}
	return strings.Join(parts, "; ")
}

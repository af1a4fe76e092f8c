package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/LautaroYamil/trabajo-practico-2/internal/domain"
	apperrors "github.com/LautaroYamil/trabajo-practico-2/pkg/errors"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/slug"
	"github.com/LautaroYamil/trabajo-practico-2/pkg/validator"
)

func (c *cli) productsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := c.catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderProducts(c.out, products)
		},
	}
}

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart with its totals",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return renderCart(c.out, c.store.View())
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id|slug> [quantity]",
		Short: "Add a product to the cart (one unit by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := c.lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			quantity := 1
			if len(args) == 2 {
				if quantity, err = parseInt("quantity", args[1]); err != nil {
					return err
				}
			}

			if err := c.store.AddItem(cmd.Context(), *product, quantity); err != nil {
				return err
			}
			return renderCart(c.out, c.store.View())
		},
	}

	update := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a line; zero removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePositive("product-id", args[0])
			if err != nil {
				return err
			}
			quantity, err := parseInt("quantity", args[1])
			if err != nil {
				return err
			}
			if err := c.store.UpdateQuantity(cmd.Context(), id, quantity); err != nil {
				return err
			}
			return renderCart(c.out, c.store.View())
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePositive("product-id", args[0])
			if err != nil {
				return err
			}
			if err := c.store.RemoveItem(cmd.Context(), id); err != nil {
				return err
			}
			return renderCart(c.out, c.store.View())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.store.ClearCart(cmd.Context()); err != nil {
				return err
			}
			return renderCart(c.out, c.store.View())
		},
	}

	cmd.AddCommand(show, add, update, remove, clearCmd)
	return cmd
}

func (c *cli) checkoutCmd() *cobra.Command {
	var form domain.CheckoutInput

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order with the current cart",
		Long: `Place an order with the current cart. The cart is emptied only once the
order has been saved.

Payment methods: mercado-pago, transferencia, tarjeta, efectivo.

Example:
  storefront checkout --name "Ana Pérez" --email ana@example.com \
    --phone 1155550000 --address "Av. Siempreviva 742" \
    --province "Buenos Aires" --payment transferencia`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.Validate(form); err != nil {
				return formError(err)
			}

			order, err := c.store.Checkout(cmd.Context(), form.Form())
			if err != nil {
				return err
			}
			return renderReceipt(c.out, order)
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "full name")
	f.StringVar(&form.Email, "email", "", "email address")
	f.StringVar(&form.Phone, "phone", "", "phone number")
	f.StringVar(&form.Address, "address", "", "delivery address")
	f.StringVar(&form.Province, "province", "", "province")
	f.StringVar(&form.Payment, "payment", "", "payment method")
	f.StringVar(&form.Notes, "notes", "", "delivery notes")
	return cmd
}

func (c *cli) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List past orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := c.store.Orders(cmd.Context())
			if err != nil {
				return err
			}
			return renderOrders(c.out, orders)
		},
	}
}

// lookup resolves a product by numeric id or by slug.
func (c *cli) lookup(ctx context.Context, ref string) (*domain.Product, error) {
	if _, err := strconv.Atoi(ref); err != nil && slug.Valid(ref) {
		return c.catalog.GetBySlug(ctx, ref)
	}
	id, err := parsePositive("product-id", ref)
	if err != nil {
		return nil, err
	}
	return c.catalog.Get(ctx, id)
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be a whole number, got %q", name, s))
	}
	return n, nil
}

func parsePositive(name, s string) (int, error) {
	n, err := parseInt(name, s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%s must be positive", name))
	}
	return n, nil
}

// formError lists every invalid flag, sorted, in one error.
func formError(err error) error {
	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return apperrors.InvalidInput("invalid checkout form: " + joinFields(verr.Fields()))
}

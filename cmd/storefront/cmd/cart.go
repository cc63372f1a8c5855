package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/service"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and mutate the cart",
	Long: `Cart commands round-trip through the API; the local view is always
the server's authoritative snapshot. All cart commands require an active
session (run "storefront login" first).`,
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := withSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		if err := app.cart.Refresh(cmd.Context()); err != nil {
			return err
		}
		printCart(app.cart)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id> <quantity>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}

		app, err := withSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		if err := app.cart.AddItem(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		printCart(app.cart)
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <item-id> <quantity>",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := parseQuantity(args[1])
		if err != nil {
			return err
		}

		app, err := withSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		if err := app.cart.UpdateItemQuantity(cmd.Context(), args[0], quantity); err != nil {
			return err
		}
		printCart(app.cart)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := withSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		if err := app.cart.RemoveItem(cmd.Context(), args[0]); err != nil {
			return err
		}
		printCart(app.cart)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := withSession(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		return app.cart.Clear(cmd.Context())
	},
}

// withSession builds the app and hydrates the session, failing fast when no
// session is active.
func withSession(ctx context.Context) (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}

	a.session.Bootstrap(ctx)
	if !a.session.IsAuthenticated() {
		a.Close(ctx)
		return nil, fmt.Errorf("not signed in (run \"storefront login\" first)")
	}
	return a, nil
}

// parseQuantity parses a positive integer quantity argument.
func parseQuantity(arg string) (int, error) {
	quantity, err := strconv.Atoi(arg)
	if err != nil || quantity <= 0 {
		return 0, fmt.Errorf("quantity must be a positive integer, got %q", arg)
	}
	return quantity, nil
}

// printCart renders the current snapshot.
func printCart(c *service.CartService) {
	snap := c.Snapshot()
	if len(snap.Items) == 0 {
		fmt.Println("cart is empty")
		return
	}

	for _, item := range snap.Items {
		fmt.Printf("%-12s %-30s x%-4d %10.2f\n", item.ID, item.Product.Name, item.Quantity, item.ItemTotal)
	}
	fmt.Printf("%d items, total %.2f\n", snap.ItemCount, snap.Total)
}

func init() {
	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

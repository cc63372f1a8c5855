// Package cmd provides the CLI commands for the storefront client.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront - e-commerce terminal client",
	Long: `Storefront is a terminal client for the e-commerce backend.

It manages an authenticated session (login, register, logout) and mirrors
the server-side cart: every cart command round-trips through the API and
displays the server's authoritative snapshot.

Configuration:
  Config is loaded from storefront.yaml in the current directory,
  $HOME/.storefront/, or /etc/storefront/.

  Environment variables can override config values with the STOREFRONT_ prefix.
  Example: STOREFRONT_API_BASE_URL=https://shop.example.com/api

Commands:
  login       Sign in and persist the access token
  register    Create an account and sign in
  logout      Sign out and clear local state
  whoami      Show the current session
  cart        Inspect and mutate the cart
  history     Show recent operations
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./storefront.yaml)")
}

func initConfig() {
	config.InitViper(cfgFile)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local state",
	Long: `Invalidate the session server-side (best effort) and clear the
persisted token. Local state is cleared even when the backend call fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		app.session.Bootstrap(cmd.Context())
		target := app.session.Logout(cmd.Context())
		fmt.Printf("signed out, next: %s\n", target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

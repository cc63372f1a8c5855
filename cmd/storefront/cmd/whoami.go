package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		app.session.Bootstrap(cmd.Context())

		user := app.session.CurrentUser()
		if user == nil {
			fmt.Println("not signed in")
			return nil
		}

		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		fmt.Printf("  Role:  %s\n", user.Role)
		fmt.Printf("  Admin: %v\n", app.session.IsAdmin())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

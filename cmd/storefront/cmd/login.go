package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the access token",
	Long: `Authenticate against the backend with email and password.

On success the access token is persisted to the state directory and
subsequent commands run authenticated. Administrative accounts are pointed
at the admin console, everyone else at the product listing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		creds := auth.Credentials{
			Email:    loginEmail,
			Password: loginPassword,
		}
		if creds.Password == "" {
			creds.Password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		target, err := app.session.Login(cmd.Context(), creds)
		if err != nil {
			// The session store already surfaced the message.
			return fmt.Errorf("login failed")
		}

		fmt.Printf("next: %s\n", target)
		return nil
	},
}

// promptLine reads one line from stdin after printing a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "login email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FernandoJacobo/ecommerce-sub001/internal/domain/auth"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close(cmd.Context())

		reg := auth.Registration{
			Name:     registerName,
			Email:    registerEmail,
			Password: registerPassword,
		}
		if reg.Password == "" {
			reg.Password, err = promptLine("Password: ")
			if err != nil {
				return err
			}
		}

		target, err := app.session.Register(cmd.Context(), reg)
		if err != nil {
			return fmt.Errorf("registration failed")
		}

		fmt.Printf("next: %s\n", target)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (prompted when omitted)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}

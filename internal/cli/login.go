package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
)

var (
	loginEmail    string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE:  runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	email := loginEmail
	if email == "" {
		if email, err = prompt("Email"); err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		if password, err = prompt("Password"); err != nil {
			return err
		}
	}

	in := domain.LoginInput{Email: email, Password: password}
	if err := in.Validate(); err != nil {
		return err
	}

	if err := e.store.Login(cmd.Context(), e.client, email, password); err != nil {
		e.store.Acknowledge()
		return e.friendly(err)
	}

	fmt.Printf("Logged in as %s\n", e.store.User().Username)
	return nil
}

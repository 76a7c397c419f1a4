package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
)

var (
	registerUsername string
	registerEmail    string
	registerPassword string
)

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "username")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (prompted if omitted)")
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE:  runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	username := registerUsername
	if username == "" {
		if username, err = prompt("Username"); err != nil {
			return err
		}
	}
	email := registerEmail
	if email == "" {
		if email, err = prompt("Email"); err != nil {
			return err
		}
	}
	password := registerPassword
	if password == "" {
		if password, err = prompt("Password"); err != nil {
			return err
		}
		confirm, err := prompt("Confirm password")
		if err != nil {
			return err
		}
		in := domain.RegisterInput{Username: username, Email: email, Password: password, Confirm: confirm}
		if err := in.Validate(); err != nil {
			return err
		}
	} else {
		in := domain.RegisterInput{Username: username, Email: email, Password: password, Confirm: password}
		if err := in.Validate(); err != nil {
			return err
		}
	}

	if err := e.store.Register(cmd.Context(), e.client, username, email, password); err != nil {
		e.store.Acknowledge()
		return e.friendly(err)
	}

	fmt.Printf("Welcome, %s — you are logged in\n", e.store.User().Username)
	return nil
}

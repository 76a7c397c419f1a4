package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session token",
	RunE:  runLogout,
}

func runLogout(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	if err := e.store.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

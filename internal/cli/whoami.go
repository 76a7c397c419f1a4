package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}

	// Ask the server rather than trusting the cached identity, so a stale
	// token is detected here instead of on the next mutation.
	user, err := e.client.Profile(cmd.Context())
	if err != nil {
		return e.friendly(err)
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/tui"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Open the interactive dashboard",
	RunE:    runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	return tui.Run(e.store, e.client)
}

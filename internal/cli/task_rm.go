package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rmForce bool

func init() {
	tasksCmd.AddCommand(tasksRmCmd)
	tasksRmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "delete without confirmation")
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm TASK",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksRm,
}

func runTasksRm(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	col, err := loadCollection(ctx, e)
	if err != nil {
		return err
	}
	id, err := resolveTaskID(col, args[0])
	if err != nil {
		return err
	}
	task, _ := col.Get(id)

	if !rmForce {
		answer, err := prompt(fmt.Sprintf("Delete %q? [y/N]", task.Title))
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := col.Remove(ctx, id); err != nil {
		return e.friendly(err)
	}
	fmt.Printf("Deleted %s\n", task.Title)
	return nil
}

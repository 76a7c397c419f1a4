package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
)

func init() {
	tasksCmd.AddCommand(tasksDoneCmd)
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done TASK",
	Short: "Mark a task as done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksDone,
}

func runTasksDone(cmd *cobra.Command, args []string) error {
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

	task, err := col.Complete(ctx, id)
	if err != nil {
		return e.friendly(err)
	}
	fmt.Println(doneMessage(task))
	return nil
}

// doneMessage tolerates a server that omits the completion timestamp.
func doneMessage(task *domain.Task) string {
	if task.CompletedAt == nil {
		return fmt.Sprintf("Done: %s", task.Title)
	}
	return fmt.Sprintf("Done: %s  (completed %s)", task.Title, task.CompletedAt.Local().Format("2006-01-02 15:04"))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
)

var (
	createDescription string
	createStatus      string
	createDue         string
	createAssignee    string
)

func init() {
	tasksCmd.AddCommand(tasksCreateCmd)
	tasksCreateCmd.Flags().StringVar(&createDescription, "desc", "", "task description")
	tasksCreateCmd.Flags().StringVar(&createStatus, "status", "", "initial status (defaults to todo)")
	tasksCreateCmd.Flags().StringVar(&createDue, "due", "", "due date (YYYY-MM-DD)")
	tasksCreateCmd.Flags().StringVar(&createAssignee, "assign", "", "assignee username")
}

var tasksCreateCmd = &cobra.Command{
	Use:   "create TITLE",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksCreate,
}

func runTasksCreate(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	col, err := loadCollection(ctx, e)
	if err != nil {
		return err
	}

	in := domain.TaskInput{Title: args[0], Description: createDescription}
	if createStatus != "" {
		status, err := domain.ParseStatus(createStatus)
		if err != nil {
			return err
		}
		in.Status = status
	}
	if in.DueDate, err = parseDueDate(createDue); err != nil {
		return err
	}
	if createAssignee != "" {
		id, err := userIDByName(col, createAssignee)
		if err != nil {
			return err
		}
		in.AssignedTo = &id
	}

	task, err := col.Create(ctx, in)
	if err != nil {
		return e.friendly(err)
	}
	fmt.Printf("Created %s  %s\n", shortID(task.ID), task.Title)
	return nil
}

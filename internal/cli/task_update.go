package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
)

var (
	updateTitle       string
	updateDescription string
	updateStatus      string
	updateDue         string
	updateAssignee    string
)

func init() {
	tasksCmd.AddCommand(tasksUpdateCmd)
	tasksUpdateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	tasksUpdateCmd.Flags().StringVar(&updateDescription, "desc", "", "new description")
	tasksUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "new status (todo|in_progress|done)")
	tasksUpdateCmd.Flags().StringVar(&updateDue, "due", "", "new due date (YYYY-MM-DD; empty clears it)")
	tasksUpdateCmd.Flags().StringVar(&updateAssignee, "assign", "", "new assignee username (\"-\" unassigns)")
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update TASK",
	Short: "Edit a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksUpdate,
}

func runTasksUpdate(cmd *cobra.Command, args []string) error {
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
	current, _ := col.Get(id)

	// Start from the current task so unset flags leave fields alone.
	in := domain.TaskInput{
		Title:       current.Title,
		Description: current.Description,
		Status:      current.Status,
		DueDate:     current.DueDate,
		AssignedTo:  current.AssignedTo,
	}
	if cmd.Flags().Changed("title") {
		in.Title = updateTitle
	}
	if cmd.Flags().Changed("desc") {
		in.Description = updateDescription
	}
	if cmd.Flags().Changed("status") {
		status, err := domain.ParseStatus(updateStatus)
		if err != nil {
			return err
		}
		in.Status = status
	}
	if cmd.Flags().Changed("due") {
		if in.DueDate, err = parseDueDate(updateDue); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("assign") {
		if updateAssignee == "-" || updateAssignee == "" {
			in.AssignedTo = nil
		} else {
			uid, err := userIDByName(col, updateAssignee)
			if err != nil {
				return err
			}
			in.AssignedTo = &uid
		}
	}

	task, err := col.Update(ctx, id, in)
	if err != nil {
		return e.friendly(err)
	}
	fmt.Printf("Updated %s  %s [%s]\n", shortID(task.ID), task.Title, task.Status.Label())
	return nil
}

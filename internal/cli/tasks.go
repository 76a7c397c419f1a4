package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/domain"
	"taskboard/internal/filter"
	"taskboard/internal/state"
)

var (
	listStatus   string
	listAssignee string
	listSearch   string
)

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (todo|in_progress|done)")
	tasksListCmd.Flags().StringVar(&listAssignee, "assignee", "", "filter by assignee username")
	tasksListCmd.Flags().StringVar(&listSearch, "search", "", "filter by free-text search over title and description")
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, optionally filtered",
	RunE:  runTasksList,
}

func runTasksList(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	col, err := loadCollection(ctx, e)
	if err != nil {
		return err
	}

	criteria := filter.Criteria{Search: listSearch}
	if listStatus != "" {
		status, err := domain.ParseStatus(listStatus)
		if err != nil {
			return err
		}
		criteria.Status = status
	}
	if listAssignee != "" {
		id, err := userIDByName(col, listAssignee)
		if err != nil {
			return err
		}
		criteria.AssignedTo = id
	}

	visible := filter.Apply(col.Tasks(), criteria)
	if len(visible) == 0 {
		if criteria.IsZero() {
			fmt.Println("No tasks yet. Create one with `taskboard tasks create`.")
		} else {
			fmt.Println("No tasks match the current filters.")
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE\tASSIGNEE\tCREATED")
	for _, t := range visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID),
			t.Title,
			t.Status.Label(),
			formatDate(t.DueDate),
			assigneeName(col, t),
			t.CreatedAt.Local().Format("2006-01-02"),
		)
	}
	return w.Flush()
}

// loadCollection fetches tasks and users into a fresh collection.
func loadCollection(ctx context.Context, e *env) (*state.Collection, error) {
	col := state.NewCollection(e.client)
	if err := col.Load(ctx); err != nil {
		return nil, e.friendly(err)
	}
	if err := col.LoadUsers(ctx); err != nil {
		return nil, e.friendly(err)
	}
	return col, nil
}

// resolveTaskID accepts a full task id or a unique prefix from list output.
func resolveTaskID(col *state.Collection, arg string) (string, error) {
	if _, ok := col.Get(arg); ok {
		return arg, nil
	}
	var match string
	for _, t := range col.Tasks() {
		if strings.HasPrefix(t.ID, arg) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", arg)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no task matches id %q", arg)
	}
	return match, nil
}

func userIDByName(col *state.Collection, username string) (string, error) {
	for _, u := range col.Users() {
		if u.Username == username || u.ID == username {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("no user named %q", username)
}

func assigneeName(col *state.Collection, t domain.Task) string {
	if t.AssignedTo == nil {
		return "-"
	}
	if name := col.Username(*t.AssignedTo); name != "" {
		return name
	}
	return shortID(*t.AssignedTo)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02")
}

func parseDueDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, want YYYY-MM-DD", raw)
	}
	return &t, nil
}

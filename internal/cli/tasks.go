package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"plazo/internal/dateutil"
	"plazo/internal/model"
	"plazo/internal/notify"
	"plazo/internal/store"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}

	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksPostponeCmd(app))
	cmd.AddCommand(newTasksSetStatusCmd(app))
	cmd.AddCommand(newTasksLinkCmd(app))
	cmd.AddCommand(newTasksSearchCmd(app))
	cmd.AddCommand(newTasksChildrenCmd(app))

	return cmd
}

// addPeriodFlags wires the shared date-window flags onto list-style
// commands.
func addPeriodFlags(cmd *cobra.Command, period, start, end *string) {
	cmd.Flags().StringVar(period, "period", "all", "Date window (all|today|week|month|custom)")
	cmd.Flags().StringVar(start, "start-date", "", "Custom window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(end, "end-date", "", "Custom window end (YYYY-MM-DD)")
}

func resolvePeriod(period, start, end string) (dateutil.Range, error) {
	p, err := dateutil.ParsePeriod(period)
	if err != nil {
		return dateutil.Range{}, err
	}
	return dateutil.Resolve(p, time.Now(), start, end), nil
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var title string
	var description string
	var priority string
	var dueDate string
	var dueTime string
	var plannedStart string
	var parentID string
	var creatorID string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t := model.Task{
				Title:       title,
				Description: description,
				Priority:    model.Priority(priority),
				DueDate:     dueDate,
				CreatorID:   creatorID,
			}
			if strings.TrimSpace(dueTime) != "" {
				t.DueTime = &dueTime
			}
			if strings.TrimSpace(plannedStart) != "" {
				t.PlannedStart = &plannedStart
			}
			if strings.TrimSpace(parentID) != "" {
				t.ParentID = &parentID
			}
			for _, name := range tags {
				tag, err := s.EnsureTag(cmd.Context(), name)
				if err != nil {
					return writeErr(cmd, err)
				}
				t.Tags = append(t.Tags, tag)
			}
			created, err := s.CreateTask(cmd.Context(), t)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityNormal), "Priority (Normal|Media|Urgente)")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "Due time HH:MM")
	cmd.Flags().StringVar(&plannedStart, "planned-start", "", "Planned start date YYYY-MM-DD")
	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task id (child stays blocked until the parent completes)")
	cmd.Flags().StringVar(&creatorID, "creator", "", "Creator user id")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag name (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var period, start, end string
	var status string
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			rng, err := resolvePeriod(period, start, end)
			if err != nil {
				return writeErr(cmd, err)
			}
			f := store.TaskFilter{DateRange: rng, OpenOnly: openOnly}
			if strings.TrimSpace(status) != "" {
				st := model.Status(status)
				if !st.Valid() {
					return writeErr(cmd, errors.New("invalid status: "+status))
				}
				f.Status = st
			}
			tasks, err := s.ListTasks(cmd.Context(), f)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"tasks": tasks})
		},
	}

	addPeriodFlags(cmd, &period, &start, &end)
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only open tasks (drop Completed/Anulado)")

	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task with its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.GetTask(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			children, err := s.Children(cmd.Context(), t.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"task": t, "children": children})
		},
	}
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between Pending and Completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, err := s.ToggleTask(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}
	return cmd
}

func newTasksPostponeCmd(app *App) *cobra.Command {
	var action string
	var date string

	cmd := &cobra.Command{
		Use:   "postpone <task-id>",
		Short: "Move a task's due date forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			id := strings.TrimSpace(args[0])
			if strings.TrimSpace(date) != "" {
				t, err := s.Postpone(cmd.Context(), id, date)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, t)
			}
			a, err := notify.ParsePostponeAction(action)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := notify.New(s).Postpone(cmd.Context(), id, a)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&action, "action", string(notify.PostponeOneDay), "Postpone action (one_day|next_business_day|one_week)")
	cmd.Flags().StringVar(&date, "date", "", "Explicit new due date YYYY-MM-DD (overrides --action)")

	return cmd
}

func newTasksSetStatusCmd(app *App) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Set an explicit task status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			id := strings.TrimSpace(args[0])
			st := model.Status(args[1])
			if !st.Valid() {
				return writeErr(cmd, errors.New("invalid status: "+args[1]))
			}
			if err := s.SetStatus(cmd.Context(), id, st, comment); err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.GetTask(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Completion comment")

	return cmd
}

func newTasksLinkCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "link <child-id> [parent-id]",
		Short: "Link a task under a parent (or clear the link with --clear)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			child := strings.TrimSpace(args[0])
			parent := ""
			if len(args) == 2 {
				parent = strings.TrimSpace(args[1])
			}
			if !clear && parent == "" {
				return writeErr(cmd, errors.New("missing parent id (or pass --clear)"))
			}
			if clear {
				parent = ""
			}
			if err := s.SetParent(cmd.Context(), child, parent); err != nil {
				return writeErr(cmd, err)
			}
			t, err := s.GetTask(cmd.Context(), child)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the parent link and re-enable the task")

	return cmd
}

func newTasksSearchCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search task titles (case-insensitive substring)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			tasks, err := s.SearchTasks(cmd.Context(), args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"tasks": tasks})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results")

	return cmd
}

func newTasksChildrenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children <task-id>",
		Short: "List tasks linked under a parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			children, err := s.Children(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"children": children})
		},
	}
	return cmd
}

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"plazo/internal/model"
	"plazo/internal/recur"
)

func newRecurringCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring task definition commands",
	}

	cmd.AddCommand(newRecurringCreateCmd(app))
	cmd.AddCommand(newRecurringListCmd(app))
	cmd.AddCommand(newRecurringSetActiveCmd(app, "pause", false))
	cmd.AddCommand(newRecurringSetActiveCmd(app, "resume", true))
	cmd.AddCommand(newRecurringRunCmd(app))

	return cmd
}

func newRecurringCreateCmd(app *App) *cobra.Command {
	var title string
	var description string
	var priority string
	var typ string
	var daysOfWeek []int
	var dayOfMonth int
	var customDates []string
	var dueTime string
	var startDate string
	var endDate string
	var creatorID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a recurring definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			r := model.RecurringTask{
				Title:       title,
				Description: description,
				Priority:    model.Priority(priority),
				Type:        model.RecurrenceType(typ),
				DaysOfWeek:  daysOfWeek,
				DayOfMonth:  dayOfMonth,
				CustomDates: customDates,
				DueTime:     dueTime,
				StartDate:   startDate,
				Active:      true,
				CreatorID:   creatorID,
			}
			if strings.TrimSpace(endDate) != "" {
				r.EndDate = &endDate
			}
			switch r.Type {
			case model.RecurWeekly:
				if len(r.DaysOfWeek) == 0 {
					return writeErr(cmd, errors.New("weekly definitions need --weekday (ISO 1=Monday .. 7=Sunday)"))
				}
			case model.RecurMonthly:
				if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
					return writeErr(cmd, errors.New("monthly definitions need --day-of-month 1-31"))
				}
			case model.RecurCustom:
				if len(r.CustomDates) == 0 {
					return writeErr(cmd, errors.New("custom definitions need --date"))
				}
			}
			created, err := s.CreateRecurring(cmd.Context(), r)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityNormal), "Priority (Normal|Media|Urgente)")
	cmd.Flags().StringVar(&typ, "type", string(model.RecurWeekdays), "Recurrence (weekdays|weekly|monthly|custom)")
	cmd.Flags().IntSliceVar(&daysOfWeek, "weekday", nil, "ISO weekday for weekly schedules (repeatable; 1=Monday .. 7=Sunday)")
	cmd.Flags().IntVar(&dayOfMonth, "day-of-month", 0, "Day 1-31 for monthly schedules (short months clamp to their last day)")
	cmd.Flags().StringSliceVar(&customDates, "date", nil, "Explicit generation date YYYY-MM-DD (repeatable)")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "Generated task due time HH:MM (default 14:00)")
	cmd.Flags().StringVar(&startDate, "start", "", "First generation date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&endDate, "end", "", "Last generation date YYYY-MM-DD (default: forever)")
	cmd.Flags().StringVar(&creatorID, "creator", "", "Creator user id")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newRecurringListCmd(app *App) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			defs, err := s.ListRecurring(cmd.Context(), activeOnly)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"recurring": defs})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only active definitions")

	return cmd
}

func newRecurringSetActiveCmd(app *App, use string, active bool) *cobra.Command {
	short := "Pause a definition"
	if active {
		short = "Resume a paused definition"
	}
	cmd := &cobra.Command{
		Use:   use + " <recurring-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.SetRecurringActive(cmd.Context(), strings.TrimSpace(args[0]), active); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"id": strings.TrimSpace(args[0]), "active": active})
		},
	}
	return cmd
}

func newRecurringRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate today's tasks from active definitions (normally done by the serve scheduler)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			n, err := recur.NewGenerator(s).RunOnce(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"generated": n})
		},
	}
	return cmd
}

package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"plazo/internal/calendar"
)

func newCalendarCmd(app *App) *cobra.Command {
	var year int
	var month int
	var period, start, end string
	var selected string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Render one month of the calendar grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month < 0 || month > 11 {
				return writeErr(cmd, errors.New("month must be 0-11"))
			}

			rng, err := resolvePeriod(period, start, end)
			if err != nil {
				return writeErr(cmd, err)
			}
			dates, err := s.EventDates(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			view := calendar.NewView(
				calendar.WithEventDates(dates),
				calendar.WithFilterRange(rng.Start, rng.End))
			view.SetMonth(year, month)
			if selected != "" {
				view.Select(selected)
			}
			return writeOut(cmd, app, map[string]any{
				"year":   view.Year(),
				"month":  view.Month(),
				"cells":  view.Grid(),
				"legend": view.Legend(),
			})
		},
	}

	now := time.Now()
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current)")
	cmd.Flags().IntVar(&month, "month", int(now.Month())-1, "Month 0-11 (default: current)")
	cmd.Flags().StringVar(&selected, "selected", "", "Selected date YYYY-MM-DD")
	addPeriodFlags(cmd, &period, &start, &end)

	return cmd
}

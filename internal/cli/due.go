package cli

import (
	"github.com/spf13/cobra"

	"plazo/internal/notify"
)

func newDueCmd(app *App) *cobra.Command {
	var leadDays int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show the due-soon feed (open tasks due soon or overdue, plus pending expirations)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			days := leadDays
			if days <= 0 {
				days = cfg.DueSoonDays
			}
			feed, err := notify.New(s, notify.WithLeadDays(days)).Build(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, feed)
		},
	}

	cmd.Flags().IntVar(&leadDays, "days", 0, "Lead window in days (default: config due_soon_days)")

	return cmd
}

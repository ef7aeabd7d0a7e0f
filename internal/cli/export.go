package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"plazo/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export commands",
	}
	cmd.AddCommand(newExportICSCmd(app))
	return cmd
}

func newExportICSCmd(app *App) *cobra.Command {
	var period, start, end string
	var outPath string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export open tasks and pending expirations as an iCalendar file",
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
			payload, err := export.ICS(cmd.Context(), s, rng)
			if err != nil {
				return writeErr(cmd, err)
			}

			path := strings.TrimSpace(outPath)
			if path == "" {
				fmt.Fprint(cmd.OutOrStdout(), payload)
				return nil
			}
			if path == "auto" {
				path = export.Filename(time.Now())
			}
			if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	addPeriodFlags(cmd, &period, &start, &end)
	cmd.Flags().StringVar(&outPath, "out", "", "Write to a file instead of stdout ('auto' picks plazo_<today>.ics)")

	return cmd
}

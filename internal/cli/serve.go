package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"plazo/internal/log"
	"plazo/internal/recur"
	"plazo/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var listen string
	var noScheduler bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server and the recurring-task scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			addr := strings.TrimSpace(listen)
			if addr == "" {
				addr = cfg.Listen
			}

			if !noScheduler {
				stop, err := recur.NewGenerator(s).Start(cmd.Context(), cfg.RecurCron, cfg.Timezone)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer stop()
				log.Info("recurring scheduler started", "cron", cfg.RecurCron, "tz", cfg.Timezone)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:        addr,
				DueSoonDays: cfg.DueSoonDays,
			}, s)
			if err != nil {
				return writeErr(cmd, err)
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: config listen)")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Serve the API without the cron scheduler")

	return cmd
}

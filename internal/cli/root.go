package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"plazo/internal/config"
	"plazo/internal/format"
	"plazo/internal/store"
	"plazo/internal/tui"
)

type App struct {
	ConfigPath string
	DBPath     string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "plazo",
		Short:        "Seguimiento de tareas y vencimientos (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  plazo

  # Scriptable commands
  plazo tasks list --period week

  # What needs attention now
  plazo due

  # Direct task lookup (shortcut for: plazo tasks show <task-id>)
  plazo task-vth3acbi
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("PLAZO_CONFIG", ""), "Path to config file (default: per-user config dir)")
	cmd.PersistentFlags().StringVar(&app.DBPath, "db", envOr("PLAZO_DB", ""), "Path to sqlite database (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLAZO_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newExpirationsCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newDueCmd(app))
	cmd.AddCommand(newRecurringCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, _, err := openStore(cmd, app)
	if err != nil {
		return err
	}
	defer s.Close()
	return tui.Run(cmd.Context(), s)
}

// loadConfig resolves --config (or the default per-user path) and reads
// the file, creating a default one on first run.
func loadConfig(app *App) (*config.Config, error) {
	path := strings.TrimSpace(app.ConfigPath)
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return config.Load(path)
}

func openStore(cmd *cobra.Command, app *App) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, nil, err
	}
	dbPath := strings.TrimSpace(app.DBPath)
	if dbPath == "" {
		dbPath = strings.TrimSpace(cfg.DBPath)
	}
	if dbPath == "" {
		p, err := config.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
		dbPath = p
	}
	s, err := store.Open(cmd.Context(), dbPath)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

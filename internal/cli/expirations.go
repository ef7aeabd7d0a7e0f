package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"plazo/internal/model"
)

func newExpirationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expirations",
		Aliases: []string{"vencimientos"},
		Short:   "Expiration (vencimiento) commands",
	}

	cmd.AddCommand(newExpirationsCreateCmd(app))
	cmd.AddCommand(newExpirationsListCmd(app))
	cmd.AddCommand(newExpirationsCompleteCmd(app))

	return cmd
}

func newExpirationsCreateCmd(app *App) *cobra.Command {
	var title string
	var description string
	var dueDate string
	var creatorID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an expiration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			created, err := s.CreateExpiration(cmd.Context(), model.Expiration{
				Title:       title,
				Description: description,
				DueDate:     dueDate,
				CreatorID:   creatorID,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, created)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Expiration title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&dueDate, "due", "", "Due date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&creatorID, "creator", "", "Creator user id")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func newExpirationsListCmd(app *App) *cobra.Command {
	var period, start, end string
	var includeCompleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expirations",
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
			exps, err := s.ListExpirations(cmd.Context(), rng, includeCompleted)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"expirations": exps})
		},
	}

	addPeriodFlags(cmd, &period, &start, &end)
	cmd.Flags().BoolVar(&includeCompleted, "completed", false, "Include completed expirations")

	return cmd
}

func newExpirationsCompleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <expiration-id>",
		Short: "Mark an expiration done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			id := strings.TrimSpace(args[0])
			if err := s.CompleteExpiration(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			e, err := s.GetExpiration(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, e)
		},
	}
	return cmd
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/challenge-hub/backend/internal/db"
	"github.com/challenge-hub/backend/internal/logging"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <up|down|status>",
		Short: "Manage the database schema",
		Long: `Apply, roll back or inspect the embedded SQL migrations.

Example:
  challenge-hub migrate up
  challenge-hub migrate status`,
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), rootOpts, args[0])
		},
	}
	return cmd
}

func runMigrate(ctx context.Context, opts *RootOptions, command string) error {
	cfg := loadConfig(opts)

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := (&db.Postgres{Pool: pool}).Migrate(ctx, command); err != nil {
		return err
	}
	logging.Info().Str("command", command).Msg("migrate finished")
	return nil
}

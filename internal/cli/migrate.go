package cli

import (
	"context"

	"go-staffhub/internal/app"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and unique indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				if err := app.Migrate(env.Infra.GormDB.WithContext(ctx)); err != nil {
					return err
				}
				return rootOpts.print(cmd,
					map[string]any{"migrated": len(app.Models())},
					"schema up to date",
				)
			})
		},
	}
}

// Package cli implements staffctl, the operator command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"go-staffhub/internal/app"
	"go-staffhub/internal/config"
	"go-staffhub/internal/shared/apperror"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	open Opener
}

var ValidFormats = []string{"text", "json"}

// Env is what a command works against.
type Env struct {
	Infra    *app.Infra
	Services *app.Services
}

type Opener func(ctx context.Context, logger *zap.Logger) (*Env, error)

func openFromConfig(ctx context.Context, logger *zap.Logger) (*Env, error) {
	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return nil, err
	}
	infra, err := app.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := app.NewServices(infra, logger)
	if err != nil {
		infra.Close()
		return nil, err
	}
	return &Env{Infra: infra, Services: svc}, nil
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(openFromConfig)
}

func newRootCommand(open Opener) *cobra.Command {
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "staffctl",
		Short: "staffctl - StaffHub administration",
		Long:  "Operator tasks for StaffHub: schema migration, employee provisioning, leave request repair and payslip import.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			apperror.Init()
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewEmployeeCommand(opts))
	cmd.AddCommand(NewLeaveCommand(opts))
	cmd.AddCommand(NewPayslipCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) logger() *zap.Logger {
	if !o.Verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// withEnv opens the stores for the duration of fn.
func (o *RootOptions) withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *Env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := o.open(ctx, o.logger())
	if err != nil {
		return err
	}
	defer env.Infra.Close()
	return fn(ctx, env)
}

// print writes v as indented JSON or text as given.
func (o *RootOptions) print(cmd *cobra.Command, v any, text string) error {
	if o.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

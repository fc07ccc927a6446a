package cli

import (
	"context"
	"fmt"

	"go-staffhub/internal/auth"
	"go-staffhub/internal/employee"
	"go-staffhub/internal/rbac"

	"github.com/spf13/cobra"
)

func NewEmployeeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Provision and deactivate employees",
	}
	cmd.AddCommand(newEmployeeCreateCommand(rootOpts))
	cmd.AddCommand(newEmployeeActiveCommand(rootOpts, "deactivate", false))
	cmd.AddCommand(newEmployeeActiveCommand(rootOpts, "activate", true))
	return cmd
}

type employeeCreateOptions struct {
	Email    string
	Password string
	FullName string
	Role     string
}

func newEmployeeCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &employeeCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a login and its employee record",
		Long: `Create a user with a bcrypt-hashed password and the employee record
that links to it. Use --role admin to bootstrap the first administrator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rbac.IsKnownRole(opts.Role) {
				return fmt.Errorf("invalid role %q", opts.Role)
			}
			return rootOpts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				user, err := env.Services.Auth.Register(ctx, auth.RegisterRequest{
					Email:    opts.Email,
					Password: opts.Password,
				})
				if err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				empl, err := env.Services.Employee.Create(ctx, employee.CreateEmployeeRequest{
					UserID:   user.ID,
					FullName: opts.FullName,
					Email:    opts.Email,
					Role:     opts.Role,
				})
				if err != nil {
					return fmt.Errorf("create employee for user %s: %w", user.ID, err)
				}
				return rootOpts.print(cmd, empl,
					fmt.Sprintf("created %s %s (%s) id=%s", empl.Role, empl.FullName, empl.Email, empl.ID))
			})
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "initial password, at least 8 characters (required)")
	cmd.Flags().StringVar(&opts.FullName, "name", "", "full name (required)")
	cmd.Flags().StringVar(&opts.Role, "role", rbac.RoleEmployee, "admin|hr|manager|employee")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newEmployeeActiveCommand(rootOpts *RootOptions, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <employee-id>",
		Short: fmt.Sprintf("Mark an employee %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				empl, err := env.Services.Employee.SetActive(ctx, args[0], active)
				if err != nil {
					return err
				}
				return rootOpts.print(cmd, empl,
					fmt.Sprintf("%s is_active=%t", empl.ID, empl.IsActive))
			})
		},
	}
}

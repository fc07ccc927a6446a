package cli

import (
	"context"
	"fmt"

	"go-staffhub/internal/payroll"

	"github.com/spf13/cobra"
)

func NewPayslipCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payslip",
		Short: "Load payslips produced by the payroll system",
	}
	cmd.AddCommand(newPayslipImportCommand(rootOpts))
	return cmd
}

func newPayslipImportCommand(rootOpts *RootOptions) *cobra.Command {
	req := payroll.ImportPayslipRequest{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Record one employee's payslip for a month",
		Long: `Record a payslip for --employee and --period (YYYY-MM). When --pdf-url is
set, employees are redirected to that document; otherwise a PDF is rendered
on request. Importing the same employee and period twice fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				p, err := env.Services.Payroll.Import(ctx, req)
				if err != nil {
					return err
				}
				return rootOpts.print(cmd, p,
					fmt.Sprintf("imported %s period=%s amount=%d status=%s", p.ID, p.Period, p.Amount, p.Status))
			})
		},
	}

	cmd.Flags().StringVar(&req.EmployeeID, "employee", "", "employee id (required)")
	cmd.Flags().StringVar(&req.Period, "period", "", "pay period YYYY-MM (required)")
	cmd.Flags().Int64Var(&req.Amount, "amount", 0, "net amount in minor units")
	cmd.Flags().StringVar(&req.Status, "status", payroll.StatusPending, "pending|paid")
	cmd.Flags().StringVar(&req.PDFURL, "pdf-url", "", "link to a stored payslip document")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

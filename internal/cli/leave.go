package cli

import (
	"context"
	"fmt"

	"go-staffhub/internal/leave"

	"github.com/spf13/cobra"
)

func NewLeaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Move leave requests between pending and needs_info",
	}
	cmd.AddCommand(newLeaveTransitionCommand(rootOpts,
		"needs-info", "Ask the requester for more information on a pending request",
		func(ctx context.Context, svc leave.Service, id string) (leave.LeaveResponse, error) {
			return svc.SetNeedsInfo(ctx, id)
		}))
	cmd.AddCommand(newLeaveTransitionCommand(rootOpts,
		"reopen", "Return a needs_info request to pending",
		func(ctx context.Context, svc leave.Service, id string) (leave.LeaveResponse, error) {
			return svc.Reopen(ctx, id)
		}))
	return cmd
}

type leaveTransition func(ctx context.Context, svc leave.Service, id string) (leave.LeaveResponse, error)

func newLeaveTransitionCommand(rootOpts *RootOptions, use, short string, run leaveTransition) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <leave-request-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withEnv(cmd, func(ctx context.Context, env *Env) error {
				lr, err := run(ctx, env.Services.Leave, args[0])
				if err != nil {
					return err
				}
				return rootOpts.print(cmd, lr, fmt.Sprintf("%s status=%s", lr.ID, lr.Status))
			})
		},
	}
}

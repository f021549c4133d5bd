package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		dryRun  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Analyze a test command and execute its plan",
		Long: `Run analyzes a natural-language test command and executes the resulting
plan. Sequential plans stop at the first failed critical step; parallel
plans run every step.

Press Ctrl+C to cancel; steps still pending are reported as CANCELLED.

Exit codes:
  0  every step succeeded
  1  the command could not be run
  2  at least one step failed or was cancelled
  3  the configuration is invalid`,
		Example: `  testctl run "run unit tests on user-service"
  testctl run --dry-run "run chaos tests on order-service"
  testctl run --timeout 10m -o json "security scan payment-service"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := opts.newFormatter(cmd)
			if err != nil {
				return err
			}
			p := newProgress(formatter, cmd.ErrOrStderr(), "Executing plan...")
			application, err := opts.newApplication(cmd, p.events())
			if err != nil {
				return err
			}
			defer application.Shutdown(context.WithoutCancel(cmd.Context()))

			command := strings.Join(args, " ")
			if dryRun {
				return formatter.FormatContext(application.Analyze(cmd.Context(), command))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			p.start()
			_, result := application.Run(ctx, command)
			p.stop()

			if err := formatter.FormatResult(result); err != nil {
				return err
			}
			if !result.Success {
				return &ExecutionFailedError{Message: result.Message}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the execution plan without running it")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Cancel the execution after this duration (0 = no limit)")
	return cmd
}

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/giantswarm/testctl/internal/shell"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "shell",
		Aliases: []string{"repl"},
		Short:   "Start an interactive testctl shell",
		Long: `Shell keeps one orchestrator alive across commands, so executions can run
in the background ("start"), be inspected ("status", "history") and be
cancelled ("cancel").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := opts.newFormatter(cmd)
			if err != nil {
				return err
			}
			application, err := opts.newApplication(cmd, nil)
			if err != nil {
				return err
			}
			defer application.Shutdown(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			return shell.New(application, formatter).Run(ctx)
		},
	}
}

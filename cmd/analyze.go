package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <command>",
		Short: "Analyze a test command and print its execution plan",
		Long: `Analyze parses a natural-language test command and prints the resulting
context: resolved test types, services and actions, the dependency graph,
risk assessment, resource requirements and the execution plan. Nothing is
executed.`,
		Example: `  testctl analyze "run chaos tests on order-service"
  testctl analyze -o json "performance test payment-service for 10 minutes"`,
		Args: cobra.MinimumNArgs(1),
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

			return formatter.FormatContext(application.Analyze(cmd.Context(), strings.Join(args, " ")))
		},
	}
}

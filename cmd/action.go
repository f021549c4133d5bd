package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/app"
	"github.com/giantswarm/testctl/internal/catalog"
)

func newActionCmd(opts *rootOptions) *cobra.Command {
	var (
		testType string
		params   []string
	)

	cmd := &cobra.Command{
		Use:   "action <ACTION> <service>",
		Short: "Execute a single action against a service",
		Long: `Action dispatches one action to its executor without analyzing a command.
Action names accept either spelling: RUN_TESTS or run-tests. RUN_TESTS
requires --test-type.`,
		Example: `  testctl action run-tests user-service --test-type unit
  testctl action run-performance-tests order-service --param loadProfile=spike --param duration=60
  testctl action health-check gateway-service`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				names := make([]string, 0, len(api.AllActionTypes()))
				for _, a := range api.AllActionTypes() {
					names = append(names, string(a))
				}
				return names, cobra.ShellCompDirectiveNoFileComp
			case 1:
				return catalog.Default().ServiceNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := app.ParseParams(params)
			if err != nil {
				return err
			}
			formatter, err := opts.newFormatter(cmd)
			if err != nil {
				return err
			}
			p := newProgress(formatter, cmd.ErrOrStderr(), fmt.Sprintf("Executing %s on %s...", args[0], args[1]))
			application, err := opts.newApplication(cmd, p.events())
			if err != nil {
				return err
			}
			defer application.Shutdown(cmd.Context())

			p.start()
			result := application.ExecuteAction(cmd.Context(), args[0], args[1], testType, parsed)
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

	cmd.Flags().StringVarP(&testType, "test-type", "t", "", "Test type for RUN_TESTS (e.g. unit, CHAOS_TEST)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Executor parameter as key=value (repeatable)")
	return cmd
}

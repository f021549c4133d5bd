package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/testctl/internal/app"
	"github.com/giantswarm/testctl/internal/config"
	"github.com/giantswarm/testctl/internal/formatting"
	"github.com/giantswarm/testctl/internal/orchestrator"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeExecutionFailed indicates the plan ran but at least one step did not succeed.
	ExitCodeExecutionFailed = 2
	// ExitCodeConfigError indicates the configuration could not be loaded or is invalid.
	ExitCodeConfigError = 3
)

// version is injected from main.
var version = "dev"

// ExecutionFailedError reports an execution whose result was not successful.
type ExecutionFailedError struct {
	Message string
}

func (e *ExecutionFailedError) Error() string {
	return e.Message
}

// rootOptions holds the persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
	debug      bool
	output     string
	quiet      bool
	noColor    bool
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "testctl",
		Short: "Analyze and execute natural-language test commands",
		Long: `testctl turns commands like "run chaos tests on order-service" into an
execution plan: it resolves test types, services and actions, walks the
service dependency graph to estimate blast radius and risk, and then runs
the plan step by step with per-step deadlines.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.SetVersionTemplate(`{{printf "testctl version %s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config-path", "", "Configuration directory (default: ~/.config/testctl)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVarP(&opts.output, "output", "o", "table", "Output format (table, json, yaml)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress decorative output")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	_ = root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newVersionCmd(),
		newAnalyzeCmd(opts),
		newRunCmd(opts),
		newActionCmd(opts),
		newCatalogCmd(opts),
		newShellCmd(opts),
	)
	return root
}

// newApplication bootstraps the application for one command invocation.
func (o *rootOptions) newApplication(cmd *cobra.Command, events orchestrator.EventCallback) (*app.Application, error) {
	cfg := app.NewConfig(o.debug, o.configPath)
	cfg.LogOutput = cmd.ErrOrStderr()
	cfg.Events = events
	return app.NewApplication(cfg)
}

// newFormatter creates a formatter writing to the command's output.
func (o *rootOptions) newFormatter(cmd *cobra.Command) (formatting.Formatter, error) {
	format, err := formatting.ParseOutputFormat(o.output)
	if err != nil {
		return nil, err
	}
	return formatting.NewFactory().CreateFormatter(formatting.Options{
		Format: format,
		Quiet:  o.quiet,
		Color:  !o.noColor && isTerminal(cmd.OutOrStdout()),
		Writer: cmd.OutOrStdout(),
	}), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var execFailed *ExecutionFailedError
	if errors.As(err, &execFailed) {
		return ExitCodeExecutionFailed
	}

	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfigError
	}
	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfigError
	}

	return ExitCodeError
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/app"
	"github.com/giantswarm/testctl/internal/formatting"
)

// errExit is returned by the exit command to end the loop.
var errExit = errors.New("exit")

// command carries the metadata shared by every shell command.
type command struct {
	usage       string
	description string
	aliases     []string
	run         func(ctx context.Context, args []string) error
}

func (c *command) Execute(ctx context.Context, args []string) error { return c.run(ctx, args) }
func (c *command) Usage() string                                    { return c.usage }
func (c *command) Description() string                              { return c.description }
func (c *command) Aliases() []string                                { return c.aliases }

func (s *Shell) registerCommands() {
	s.registry.Register("help", &command{
		usage:       "help [command]",
		description: "Show available commands",
		aliases:     []string{"?"},
		run:         s.help,
	})
	s.registry.Register("analyze", &command{
		usage:       "analyze <command text>",
		description: "Analyze a test command and show the execution plan",
		run:         s.analyze,
	})
	s.registry.Register("run", &command{
		usage:       "run <command text>",
		description: "Analyze a test command and execute its plan",
		run:         s.run,
	})
	s.registry.Register("start", &command{
		usage:       "start <command text>",
		description: "Execute a command's plan in the background",
		run:         s.start,
	})
	s.registry.Register("action", &command{
		usage:       "action <ACTION> <service> [test-type] [key=value ...]",
		description: "Execute a single action against a service",
		run:         s.action,
	})
	s.registry.Register("status", &command{
		usage:       "status [execution-id]",
		description: "Show running executions or one execution",
		aliases:     []string{"ps"},
		run:         s.status,
	})
	s.registry.Register("cancel", &command{
		usage:       "cancel <execution-id>",
		description: "Cancel a running execution",
		run:         s.cancel,
	})
	s.registry.Register("history", &command{
		usage:       "history",
		description: "Show finished executions, newest first",
		run:         s.history,
	})
	s.registry.Register("catalog", &command{
		usage:       "catalog [test-types|services|actions]",
		description: "Show the registry tables",
		run:         s.catalog,
	})
	s.registry.Register("exit", &command{
		usage:       "exit",
		description: "Leave the shell",
		aliases:     []string{"quit", "q"},
		run:         func(context.Context, []string) error { return errExit },
	})
}

func (s *Shell) help(_ context.Context, args []string) error {
	if len(args) > 0 {
		cmd, ok := s.registry.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Fprintf(s.out, "%s\n  %s\n", cmd.Usage(), cmd.Description())
		return nil
	}

	fmt.Fprintln(s.out, "Available commands:")
	for _, name := range s.registry.Names() {
		cmd, _ := s.registry.Get(name)
		fmt.Fprintf(s.out, "  %-52s %s\n", cmd.Usage(), cmd.Description())
	}
	return nil
}

func requireText(args []string, usage string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("usage: %s", usage)
	}
	return text, nil
}

func (s *Shell) analyze(ctx context.Context, args []string) error {
	text, err := requireText(args, "analyze <command text>")
	if err != nil {
		return err
	}
	return s.formatter.FormatContext(s.app.Analyze(ctx, text))
}

func (s *Shell) run(ctx context.Context, args []string) error {
	text, err := requireText(args, "run <command text>")
	if err != nil {
		return err
	}
	_, result := s.app.Run(ctx, text)
	return s.formatter.FormatResult(result)
}

func (s *Shell) start(ctx context.Context, args []string) error {
	text, err := requireText(args, "start <command text>")
	if err != nil {
		return err
	}
	cc := s.app.Analyze(ctx, text)
	// The background execution outlives the per-command context.
	id, done := s.app.Services().Orchestrator.StartActions(context.WithoutCancel(ctx), cc)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		<-done
	}()
	fmt.Fprintf(s.out, "Started execution %s\n", id)
	return nil
}

func (s *Shell) action(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: action <ACTION> <service> [test-type] [key=value ...]")
	}
	rest := args[2:]
	testType := ""
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		testType, rest = rest[0], rest[1:]
	}
	params, err := app.ParseParams(rest)
	if err != nil {
		return err
	}
	return s.formatter.FormatResult(s.app.ExecuteAction(ctx, args[0], args[1], testType, params))
}

func (s *Shell) status(ctx context.Context, args []string) error {
	orch := s.app.Services().Orchestrator
	if len(args) > 0 {
		record, err := orch.GetExecution(ctx, args[0])
		if err != nil {
			return err
		}
		return s.formatter.FormatHistory([]api.ExecutionRecord{record})
	}

	active := orch.ActiveExecutions()
	if len(active) == 0 {
		fmt.Fprintln(s.out, "No running executions.")
		return nil
	}
	records := make([]api.ExecutionRecord, 0, len(active))
	for _, r := range active {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StartedAt.After(records[j].StartedAt) })
	return s.formatter.FormatHistory(records)
}

func (s *Shell) cancel(_ context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: cancel <execution-id>")
	}
	if !s.app.Services().Orchestrator.CancelExecution(args[0]) {
		return api.NewNotFoundError("running execution", args[0])
	}
	fmt.Fprintf(s.out, "Cancelled execution %s\n", args[0])
	return nil
}

func (s *Shell) history(context.Context, []string) error {
	return s.formatter.FormatHistory(s.app.Services().Orchestrator.History())
}

func (s *Shell) catalog(_ context.Context, args []string) error {
	section := formatting.SectionAll
	if len(args) > 0 {
		section = formatting.CatalogSection(args[0])
	}
	return s.formatter.FormatCatalog(s.app.Services().Catalog, section)
}

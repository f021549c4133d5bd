// Package shell implements the interactive testctl shell.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/app"
	"github.com/giantswarm/testctl/internal/formatting"
	"github.com/giantswarm/testctl/pkg/logging"
)

const prompt = "testctl » "

// commandExecutionTimeout bounds a single shell command. Background
// executions started with "start" are not affected.
const commandExecutionTimeout = 30 * time.Minute

// Shell reads commands from the terminal and runs them against an Application.
type Shell struct {
	app       *app.Application
	formatter formatting.Formatter
	out       io.Writer
	registry  *Registry
	pending   sync.WaitGroup
}

// New creates a shell. Output goes to the formatter's writer.
func New(application *app.Application, formatter formatting.Formatter) *Shell {
	out := formatter.GetOptions().Writer
	if out == nil {
		out = os.Stdout
	}
	s := &Shell{
		app:       application,
		formatter: formatter,
		out:       out,
		registry:  NewRegistry(),
	}
	s.registerCommands()
	return s
}

// Execute runs one input line. It returns io.EOF when the line asks the shell
// to exit.
func (s *Shell) Execute(ctx context.Context, input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	name := strings.ToLower(parts[0])
	cmd, ok := s.registry.Get(name)
	if !ok {
		return fmt.Errorf("unknown command: %s. Type 'help' for available commands", parts[0])
	}

	cmdCtx, cancel := context.WithTimeout(ctx, commandExecutionTimeout)
	defer cancel()

	err := cmd.Execute(cmdCtx, parts[1:])
	if errors.Is(err, errExit) {
		return io.EOF
	}
	return err
}

// Run starts the read-eval-print loop and blocks until exit, Ctrl+D or ctx
// cancellation. Background executions are cancelled on the way out.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       filepath.Join(os.TempDir(), ".testctl_history"),
		AutoComplete:      s.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()
	defer s.shutdown()

	fmt.Fprintln(s.out, "testctl shell. Type 'help' for available commands. Use TAB for completion.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *Shell) shutdown() {
	orch := s.app.Services().Orchestrator
	for id := range orch.ActiveExecutions() {
		logging.Debug("Shell", "Cancelling execution %s on exit", id)
		orch.CancelExecution(id)
	}
	s.pending.Wait()
}

func (s *Shell) completer() *readline.PrefixCompleter {
	cat := s.app.Services().Catalog
	services := func(string) []string { return cat.ServiceNames() }

	actions := make([]readline.PrefixCompleterInterface, 0, len(api.AllActionTypes()))
	for _, a := range api.AllActionTypes() {
		actions = append(actions, readline.PcItem(string(a), readline.PcItemDynamic(services)))
	}

	var items []readline.PrefixCompleterInterface
	for _, name := range s.registry.Names() {
		switch name {
		case "action":
			items = append(items, readline.PcItem(name, actions...))
		case "catalog":
			items = append(items, readline.PcItem(name,
				readline.PcItem(string(formatting.SectionTestTypes)),
				readline.PcItem(string(formatting.SectionServices)),
				readline.PcItem(string(formatting.SectionActions)),
			))
		case "help":
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(func(string) []string {
				return s.registry.Names()
			})))
		default:
			items = append(items, readline.PcItem(name))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

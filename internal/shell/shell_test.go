package shell

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/app"
	"github.com/giantswarm/testctl/internal/config"
	"github.com/giantswarm/testctl/internal/formatting"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	tc := config.GetDefaultConfig()
	tc.Executors.DelayScale = 0

	application, err := app.NewApplication(&app.Config{TestctlConfig: &tc, LogOutput: io.Discard})
	require.NoError(t, err)

	var out bytes.Buffer
	return New(application, formatting.NewTableFormatter(formatting.Options{Writer: &out})), &out
}

func TestRegistry(t *testing.T) {
	s, _ := newTestShell(t)

	assert.Equal(t, []string{"action", "analyze", "cancel", "catalog", "exit", "help", "history", "run", "start", "status"}, s.registry.Names())

	for alias, primary := range map[string]string{"?": "help", "quit": "exit", "q": "exit", "ps": "status"} {
		got, ok := s.registry.Get(alias)
		require.True(t, ok, alias)
		want, _ := s.registry.Get(primary)
		assert.Same(t, want, got)
	}

	_, ok := s.registry.Get("deploy")
	assert.False(t, ok)
}

func TestShell_Execute(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		wantErr  string
	}{
		{name: "empty line", input: "   "},
		{name: "help", input: "help", contains: []string{"Available commands:", "analyze <command text>"}},
		{name: "help for command", input: "? cancel", contains: []string{"cancel <execution-id>", "Cancel a running execution"}},
		{name: "help for unknown command", input: "help deploy", wantErr: "unknown command: deploy"},
		{name: "unknown command", input: "deploy everything", wantErr: "unknown command: deploy"},
		{name: "analyze", input: "analyze run unit tests on user-service", contains: []string{"Command: run unit tests on user-service", "UNIT_TEST"}},
		{name: "analyze without text", input: "analyze", wantErr: "usage: analyze"},
		{name: "run", input: "run run unit tests on user-service", contains: []string{"steps successful"}},
		{name: "action with params", input: "action scale-resources user-service replicas=3", contains: []string{"✓ SUCCESS Resource scaling completed", "scaled"}},
		{name: "action missing service", input: "action RUN_TESTS", wantErr: "usage: action"},
		{name: "action bad param", input: "action RUN_TESTS user-service unit =x", wantErr: "invalid parameter"},
		{name: "status idle", input: "status", contains: []string{"No running executions."}},
		{name: "status unknown", input: "status nope", wantErr: "not found: nope"},
		{name: "cancel unknown", input: "cancel nope", wantErr: "not found: nope"},
		{name: "cancel without id", input: "cancel", wantErr: "usage: cancel"},
		{name: "empty history", input: "history", contains: []string{"No executions recorded"}},
		{name: "catalog section", input: "catalog services", contains: []string{"order-service"}},
		{name: "catalog unknown section", input: "catalog widgets", wantErr: "unknown catalog section"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestShell(t)

			err := s.Execute(context.Background(), tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, out.String(), c)
			}
		})
	}
}

func TestShell_ExitReturnsEOF(t *testing.T) {
	s, _ := newTestShell(t)
	for _, input := range []string{"exit", "QUIT", "q"} {
		assert.ErrorIs(t, s.Execute(context.Background(), input), io.EOF, input)
	}
}

func TestShell_StartRecordsHistory(t *testing.T) {
	s, out := newTestShell(t)

	require.NoError(t, s.Execute(context.Background(), "start run unit tests on user-service"))
	assert.Contains(t, out.String(), "Started execution ")
	s.pending.Wait()

	history := s.app.Services().Orchestrator.History()
	require.Len(t, history, 1)
	assert.NotEqual(t, api.StatusRunning, history[0].Status)

	out.Reset()
	require.NoError(t, s.Execute(context.Background(), "status "+history[0].ExecutionID))
	assert.Contains(t, out.String(), history[0].ExecutionID)

	out.Reset()
	require.NoError(t, s.Execute(context.Background(), "history"))
	assert.Contains(t, out.String(), history[0].ExecutionID)
}

func TestShell_Completer(t *testing.T) {
	s, _ := newTestShell(t)

	c := s.completer()
	names := make([]string, 0, len(c.GetChildren()))
	for _, child := range c.GetChildren() {
		names = append(names, string(child.GetName()))
	}
	assert.Contains(t, names, "action ")
	assert.Contains(t, names, "catalog ")
}

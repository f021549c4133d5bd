package app

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/giantswarm/testctl/internal/analyzer"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/internal/executor"
	"github.com/giantswarm/testctl/internal/orchestrator"
	"github.com/giantswarm/testctl/pkg/logging"
)

// Services holds the components every command works with.
type Services struct {
	Catalog      *catalog.Catalog
	Analyzer     *analyzer.Analyzer
	Orchestrator *orchestrator.Orchestrator

	tracerProvider *sdktrace.TracerProvider
}

// InitializeServices builds the catalog, the analyzer and the orchestrator
// from the loaded configuration.
func InitializeServices(cfg *Config) (*Services, error) {
	tc := cfg.TestctlConfig

	cat := catalog.Default()
	if tc.Catalog.Path != "" {
		loaded, err := catalog.Load(tc.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog from %s: %w", tc.Catalog.Path, err)
		}
		cat = loaded
		logging.Info("Services", "Loaded registry tables from %s", tc.Catalog.Path)
	}

	var (
		tracer trace.Tracer = noop.NewTracerProvider().Tracer("testctl")
		tp     *sdktrace.TracerProvider
	)
	if tc.Tracing.Enabled {
		var err error
		tp, err = newTracerProvider(cfg.LogOutput)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
		tracer = tp.Tracer("github.com/giantswarm/testctl")
		logging.Debug("Services", "Tracing enabled")
	}

	orch := orchestrator.New(orchestrator.Config{
		Catalog: cat,
		Executors: executor.Options{
			DelayScale: tc.Executors.DelayScale,
		},
		Health: executor.HealthConfig{
			BaseURL: tc.Health.BaseURL,
			Path:    tc.Health.Path,
			Timeout: tc.Health.Timeout,
		},
		StepTimeout:    tc.Orchestrator.StepTimeout,
		MaxConcurrency: tc.Orchestrator.MaxConcurrency,
		DispatchRate:   tc.Orchestrator.DispatchRate,
		HistorySize:    tc.Orchestrator.HistorySize,
		Tracer:         tracer,
		EventCallback:  cfg.Events,
	})

	return &Services{
		Catalog:        cat,
		Analyzer:       analyzer.New(analyzer.Config{Catalog: cat}),
		Orchestrator:   orch,
		tracerProvider: tp,
	}, nil
}

// Shutdown flushes pending spans.
func (s *Services) Shutdown(ctx context.Context) error {
	if s.tracerProvider == nil {
		return nil
	}
	return s.tracerProvider.Shutdown(ctx)
}

func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)), nil
}

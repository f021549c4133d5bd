package analyzer

import (
	"context"
	"fmt"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/internal/dependency"
	"github.com/giantswarm/testctl/internal/nlp"
	"github.com/giantswarm/testctl/pkg/logging"
)

// DependencyAnalyzer computes the dependency graph for a resolved request.
type DependencyAnalyzer interface {
	AnalyzeDependencies(testTypes []api.TestType, services []string, actions []api.ActionType) api.DependencyGraph
}

// Config holds the collaborators of an Analyzer. Nil fields are filled from
// the default catalog.
type Config struct {
	Catalog      *catalog.Catalog
	Parser       nlp.Parser
	Dependencies DependencyAnalyzer
}

// Analyzer builds a ComprehensiveContext for a command.
type Analyzer struct {
	catalog      *catalog.Catalog
	parser       nlp.Parser
	dependencies DependencyAnalyzer
}

// New creates an Analyzer.
func New(cfg Config) *Analyzer {
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	parser := cfg.Parser
	if parser == nil {
		parser = nlp.NewKeywordParser(cat)
	}
	deps := cfg.Dependencies
	if deps == nil {
		deps = dependency.NewAnalyzer(cat)
	}
	return &Analyzer{catalog: cat, parser: parser, dependencies: deps}
}

// AnalyzeCommand parses command and analyzes the result. Failures never
// surface as errors: they produce ErrorContext with zero confidence.
func (a *Analyzer) AnalyzeCommand(ctx context.Context, command string) api.ComprehensiveContext {
	logging.Info("ContextAnalyzer", "Analyzing command: %s", command)

	parsed, err := a.parser.Parse(ctx, command)
	if err != nil {
		logging.Error("ContextAnalyzer", err, "Failed to parse command %q", command)
		return ErrorContext(command, err)
	}
	return a.Analyze(ctx, parsed)
}

// Analyze builds the context for an already parsed command.
func (a *Analyzer) Analyze(ctx context.Context, parsed api.ParsedCommand) (result api.ComprehensiveContext) {
	command := parsed.OriginalCommand
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			logging.Error("ContextAnalyzer", err, "Analysis of %q panicked", command)
			result = ErrorContext(command, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return ErrorContext(command, err)
	}

	testTypes := ResolveTestTypes(parsed)
	services := ResolveServices(a.catalog, parsed)
	actions := ResolveActions(a.catalog, parsed)

	graph := a.dependencies.AnalyzeDependencies(testTypes, services, actions)
	plan := BuildPlan(a.catalog, testTypes, services, actions, graph, parsed.Parameters)
	risk := AssessRisk(a.catalog, testTypes, services, actions)

	priority, _ := parsed.Parameters["priority"].(string)

	result = api.ComprehensiveContext{
		Command:              command,
		ParsedCommand:        parsed,
		TestTypes:            testTypes,
		Services:             services,
		Actions:              actions,
		Dependencies:         graph,
		ExecutionPlan:        plan,
		RiskAssessment:       risk,
		ResourceRequirements: Resources(a.catalog, testTypes, services, priority),
		EstimatedDuration:    EstimateDuration(a.catalog, testTypes, services, actions),
		Warnings:             append([]string{}, risk.Warnings...),
		Suggestions:          Suggestions(a.catalog, testTypes),
		Confidence:           Confidence(parsed, testTypes, services, actions),
	}

	logging.Info("ContextAnalyzer", "Built context with %d steps, risk %s, confidence %.2f",
		len(plan.Steps), risk.OverallRiskLevel, result.Confidence)
	return result
}

package analyzer

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
)

const (
	// ExecutionOrderSequential is the metadata label carried by every plan.
	ExecutionOrderSequential = "SEQUENTIAL"

	defaultStepTimeout     = "300s"
	defaultStepRetries     = 2
	defaultMinutes         = 5
	defaultStepDuration    = "5 minutes"
	defaultPriority        = "NORMAL"
	riskAssessmentLabel    = "HIGH"
	nlpConfidenceWeight    = 0.4
	completenessConfidence = 0.2
)

// DefaultTestTypes is used when the command names no test type.
var DefaultTestTypes = []api.TestType{api.TestTypeUnit, api.TestTypeIntegration}

// identityParams are owned by the plan builder and never overridden by
// parsed parameters.
var identityParams = []string{"action", "service", "testType"}

// ResolveTestTypes returns the parsed test types, or DefaultTestTypes.
func ResolveTestTypes(parsed api.ParsedCommand) []api.TestType {
	if len(parsed.TestTypes) == 0 {
		return slices.Clone(DefaultTestTypes)
	}
	return dedupe(parsed.TestTypes)
}

// ResolveServices returns the parsed services, or every catalog service.
func ResolveServices(cat *catalog.Catalog, parsed api.ParsedCommand) []string {
	if len(parsed.Services) == 0 {
		return cat.ServiceNames()
	}
	return dedupe(parsed.Services)
}

// ResolveActions maps parsed intents to actions. Intents without an action
// are dropped; an empty result defaults to RUN_TESTS.
func ResolveActions(cat *catalog.Catalog, parsed api.ParsedCommand) []api.ActionType {
	var actions []api.ActionType
	for _, intent := range parsed.Intents {
		if action, ok := cat.ActionForIntent(intent); ok {
			actions = append(actions, action)
		}
	}
	if len(actions) == 0 {
		return []api.ActionType{api.ActionRunTests}
	}
	return dedupe(actions)
}

// StepID is the deterministic identifier of an (action, service, test type) step.
func StepID(action api.ActionType, service string, testType api.TestType) string {
	return fmt.Sprintf("%s_%s_%s", action, service, testType)
}

// BuildPlan creates one step per (action, service, test type) combination in
// that nesting order. overrides are parsed command parameters layered over the
// step defaults.
func BuildPlan(cat *catalog.Catalog, testTypes []api.TestType, services []string, actions []api.ActionType,
	graph api.DependencyGraph, overrides map[string]interface{}) api.ExecutionPlan {
	steps := make([]api.ExecutionStep, 0, len(actions)*len(services)*len(testTypes))
	totalMinutes := 0

	for _, action := range actions {
		for _, service := range services {
			for _, testType := range testTypes {
				duration := StepDuration(cat, testType)
				totalMinutes += ParseExecutionTime(duration)

				steps = append(steps, api.ExecutionStep{
					StepID:            StepID(action, service, testType),
					Name:              fmt.Sprintf("%s %s for %s", action, testType.DisplayName(), service),
					ActionType:        action,
					ServiceName:       service,
					TestType:          testType,
					Parameters:        stepParameters(action, service, testType, overrides),
					Dependencies:      append([]string{}, graph.Dependencies[service]...),
					EstimatedDuration: duration,
					Status:            api.StatusPending,
				})
			}
		}
	}

	return api.ExecutionPlan{
		Steps:             steps,
		ExecutionOrder:    ExecutionOrderSequential,
		ExecutionStrategy: Strategy(cat, testTypes),
		EstimatedDuration: FormatDuration(totalMinutes),
	}
}

func stepParameters(action api.ActionType, service string, testType api.TestType, overrides map[string]interface{}) map[string]interface{} {
	params := map[string]interface{}{
		"timeout": defaultStepTimeout,
		"retries": defaultStepRetries,
	}
	for k, v := range overrides {
		if !slices.Contains(identityParams, k) {
			params[k] = v
		}
	}
	params["action"] = string(action)
	params["service"] = service
	params["testType"] = string(testType)
	return params
}

// StepDuration is the registry execution-time range of testType, or
// "5 minutes" for test types without an entry.
func StepDuration(cat *catalog.Catalog, testType api.TestType) string {
	if entry, ok := cat.TestType(testType); ok && entry.ExecutionTime != "" {
		return entry.ExecutionTime
	}
	return defaultStepDuration
}

// Strategy is PARALLEL when every known test type is parallelizable. Test
// types without a registry entry do not take part in the decision.
func Strategy(cat *catalog.Catalog, testTypes []api.TestType) api.ExecutionStrategy {
	if allParallelizable(cat, testTypes) {
		return api.StrategyParallel
	}
	return api.StrategySequential
}

func allParallelizable(cat *catalog.Catalog, testTypes []api.TestType) bool {
	for _, tt := range testTypes {
		if entry, ok := cat.TestType(tt); ok && !entry.Parallelizable {
			return false
		}
	}
	return true
}

// AssessRisk collects risk factors from HIGH risk test types, HIGH
// criticality services and HIGH risk actions. Risk levels are recorded per
// test type and per action, and the overall level is their maximum.
func AssessRisk(cat *catalog.Catalog, testTypes []api.TestType, services []string, actions []api.ActionType) api.RiskAssessment {
	assessment := api.RiskAssessment{
		RiskFactors:          []string{},
		RiskLevels:           map[string]api.RiskLevel{},
		MitigationStrategies: []string{},
		Warnings:             []string{},
		Confidence:           riskAssessmentLabel,
	}

	for _, tt := range testTypes {
		entry, ok := cat.TestType(tt)
		if !ok {
			continue
		}
		level := api.ParseRiskLevel(string(entry.RiskLevel))
		assessment.RiskLevels[string(tt)] = level
		if level == api.RiskHigh {
			assessment.RiskFactors = append(assessment.RiskFactors, "High risk test type: "+tt.DisplayName())
			assessment.Warnings = append(assessment.Warnings, fmt.Sprintf("HIGH RISK: %s may cause system disruption", tt.DisplayName()))
		}
	}

	for _, svc := range services {
		if cat.IsCritical(svc) {
			assessment.RiskFactors = append(assessment.RiskFactors, "Critical service: "+svc)
			assessment.Warnings = append(assessment.Warnings, fmt.Sprintf("CRITICAL SERVICE: %s is essential for system operation", svc))
		}
	}

	for _, action := range actions {
		entry, ok := cat.Action(action)
		if !ok {
			continue
		}
		level := api.ParseRiskLevel(string(entry.RiskLevel))
		assessment.RiskLevels[string(action)] = level
		if level == api.RiskHigh {
			assessment.RiskFactors = append(assessment.RiskFactors, fmt.Sprintf("High risk action: %s", action))
			assessment.Warnings = append(assessment.Warnings, fmt.Sprintf("HIGH RISK ACTION: %s may have significant impact", action))
		}
	}

	levels := make([]api.RiskLevel, 0, len(assessment.RiskLevels))
	for _, l := range assessment.RiskLevels {
		levels = append(levels, l)
	}
	assessment.OverallRiskLevel = api.MaxRisk(levels...)
	assessment.MitigationStrategies = mitigations(assessment.RiskFactors)
	return assessment
}

func mitigations(factors []string) []string {
	strategies := []string{}
	if slices.Contains(factors, "High risk test type: "+api.TestTypeChaos.DisplayName()) {
		strategies = append(strategies,
			"Enable monitoring and rollback mechanisms",
			"Run during low-traffic periods",
			"Prepare emergency stop procedures",
		)
	}
	if slices.Contains(factors, "Critical service: gateway-service") {
		strategies = append(strategies,
			"Ensure gateway service redundancy",
			"Monitor gateway health continuously",
			"Prepare failover procedures",
		)
	}
	return strategies
}

// Resources derives resource requirements. A HIGH resource-usage test type
// raises cpu and memory to HIGH. priority defaults to NORMAL.
func Resources(cat *catalog.Catalog, testTypes []api.TestType, services []string, priority string) api.ResourceRequirements {
	req := api.ResourceRequirements{
		CPU:      string(api.RiskMedium),
		Memory:   string(api.RiskMedium),
		Storage:  string(api.RiskLow),
		Network:  string(api.RiskMedium),
		Priority: defaultPriority,
	}
	if priority != "" {
		req.Priority = priority
	}

	var external []string
	for _, tt := range testTypes {
		entry, ok := cat.TestType(tt)
		if !ok {
			continue
		}
		if entry.ResourceUsage == api.RiskHigh {
			req.CPU = string(api.RiskHigh)
			req.Memory = string(api.RiskHigh)
		}
		external = append(external, entry.Dependencies...)
	}
	for _, svc := range services {
		external = append(external, cat.ServiceDependencies(svc)...)
	}
	req.ExternalDependencies = dedupe(external)
	return req
}

// EstimateDuration sums the upper bound of every test type's execution time
// and multiplies it by the number of services and actions.
func EstimateDuration(cat *catalog.Catalog, testTypes []api.TestType, services []string, actions []api.ActionType) string {
	total := 0
	for _, tt := range testTypes {
		if entry, ok := cat.TestType(tt); ok && entry.ExecutionTime != "" {
			total += ParseExecutionTime(entry.ExecutionTime)
		}
	}
	total *= len(services)
	total *= len(actions)
	return FormatDuration(total)
}

// Suggestions recommends parallel execution when possible and extra care for
// chaos testing.
func Suggestions(cat *catalog.Catalog, testTypes []api.TestType) []string {
	suggestions := []string{}
	if allParallelizable(cat, testTypes) {
		suggestions = append(suggestions, "Consider parallel execution to reduce total time")
	}
	if slices.Contains(testTypes, api.TestTypeChaos) {
		suggestions = append(suggestions,
			"Enable comprehensive monitoring during chaos testing",
			"Prepare rollback procedures",
		)
	}
	return suggestions
}

// Confidence is 0.4 times the parser confidence plus 0.2 for each non-empty
// resolved list, capped at 1.0.
func Confidence(parsed api.ParsedCommand, testTypes []api.TestType, services []string, actions []api.ActionType) float64 {
	confidence := parsed.Confidence * nlpConfidenceWeight
	if len(testTypes) > 0 {
		confidence += completenessConfidence
	}
	if len(services) > 0 {
		confidence += completenessConfidence
	}
	if len(actions) > 0 {
		confidence += completenessConfidence
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// ParseExecutionTime returns the upper bound of a range such as "5-15 minutes".
// Anything that is not a range counts as 5 minutes.
func ParseExecutionTime(s string) int {
	_, upper, found := strings.Cut(s, "-")
	if !found {
		return defaultMinutes
	}
	fields := strings.Fields(upper)
	if len(fields) == 0 {
		return defaultMinutes
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return defaultMinutes
	}
	return n
}

// FormatDuration renders minutes as "N minutes", "H hour(s)" or
// "H hour(s) M minutes".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	rest := minutes % 60
	unit := "hour"
	if hours > 1 {
		unit = "hours"
	}
	if rest == 0 {
		return fmt.Sprintf("%d %s", hours, unit)
	}
	return fmt.Sprintf("%d %s %d minutes", hours, unit, rest)
}

// ErrorContext is the zero-confidence context returned when analysis fails.
func ErrorContext(command string, err error) api.ComprehensiveContext {
	return api.ComprehensiveContext{
		Command:    command,
		Confidence: 0,
		Warnings:   []string{"Error analyzing command: " + err.Error()},
	}
}

func dedupe[T comparable](in []T) []T {
	seen := make(map[T]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

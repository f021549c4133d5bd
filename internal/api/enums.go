package api

// TestType identifies a kind of test suite that can be run against a service.
type TestType string

const (
	TestTypeUnit          TestType = "UNIT_TEST"
	TestTypeIntegration   TestType = "INTEGRATION_TEST"
	TestTypeContract      TestType = "CONTRACT_TEST"
	TestTypeAPI           TestType = "API_TEST"
	TestTypePerformance   TestType = "PERFORMANCE_TEST"
	TestTypeSecurity      TestType = "SECURITY_TEST"
	TestTypeChaos         TestType = "CHAOS_TEST"
	TestTypePenetration   TestType = "PENETRATION_TEST"
	TestTypeEndToEnd      TestType = "END_TO_END_TEST"
	TestTypeSmoke         TestType = "SMOKE_TEST"
	TestTypeRegression    TestType = "REGRESSION_TEST"
	TestTypeExploratory   TestType = "EXPLORATORY_TEST"
	TestTypeAccessibility TestType = "ACCESSIBILITY_TEST"
	TestTypeCompatibility TestType = "COMPATIBILITY_TEST"
	TestTypeLocalization  TestType = "LOCALIZATION_TEST"
)

var testTypeDisplayNames = map[TestType]string{
	TestTypeUnit:          "Unit Test",
	TestTypeIntegration:   "Integration Test",
	TestTypeContract:      "Contract Test",
	TestTypeAPI:           "API Test",
	TestTypePerformance:   "Performance Test",
	TestTypeSecurity:      "Security Test",
	TestTypeChaos:         "Chaos Test",
	TestTypePenetration:   "Penetration Test",
	TestTypeEndToEnd:      "End-to-End Test",
	TestTypeSmoke:         "Smoke Test",
	TestTypeRegression:    "Regression Test",
	TestTypeExploratory:   "Exploratory Test",
	TestTypeAccessibility: "Accessibility Test",
	TestTypeCompatibility: "Compatibility Test",
	TestTypeLocalization:  "Localization Test",
}

// AllTestTypes returns every known test type in declaration order.
func AllTestTypes() []TestType {
	return []TestType{
		TestTypeUnit, TestTypeIntegration, TestTypeContract, TestTypeAPI,
		TestTypePerformance, TestTypeSecurity, TestTypeChaos, TestTypePenetration,
		TestTypeEndToEnd, TestTypeSmoke, TestTypeRegression, TestTypeExploratory,
		TestTypeAccessibility, TestTypeCompatibility, TestTypeLocalization,
	}
}

// DisplayName returns the human readable name, e.g. "End-to-End Test".
// Unknown values fall back to the raw identifier.
func (t TestType) DisplayName() string {
	if name, ok := testTypeDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

// Known reports whether t is one of the declared test types.
func (t TestType) Known() bool {
	_, ok := testTypeDisplayNames[t]
	return ok
}

// ActionType identifies an operation the orchestrator can dispatch.
type ActionType string

const (
	ActionRunTests            ActionType = "RUN_TESTS"
	ActionRunPerformanceTests ActionType = "RUN_PERFORMANCE_TESTS"
	ActionRunSecurityTests    ActionType = "RUN_SECURITY_TESTS"
	ActionRunIntegrationTests ActionType = "RUN_INTEGRATION_TESTS"
	ActionRunChaosTests       ActionType = "RUN_CHAOS_TESTS"
	ActionAnalyzeFailures     ActionType = "ANALYZE_FAILURES"
	ActionGenerateTests       ActionType = "GENERATE_TESTS"
	ActionOptimizeTests       ActionType = "OPTIMIZE_TESTS"
	ActionHealthCheck         ActionType = "HEALTH_CHECK"
	ActionMonitorSystem       ActionType = "MONITOR_SYSTEM"
	ActionGenerateReport      ActionType = "GENERATE_REPORT"
	ActionSelfHeal            ActionType = "SELF_HEAL"
	ActionScaleResources      ActionType = "SCALE_RESOURCES"
)

// AllActionTypes returns every dispatchable action in declaration order.
func AllActionTypes() []ActionType {
	return []ActionType{
		ActionRunTests, ActionRunPerformanceTests, ActionRunSecurityTests,
		ActionRunIntegrationTests, ActionRunChaosTests, ActionAnalyzeFailures,
		ActionGenerateTests, ActionOptimizeTests, ActionHealthCheck,
		ActionMonitorSystem, ActionGenerateReport, ActionSelfHeal, ActionScaleResources,
	}
}

// IntentType is the high level intent reported by the command parser.
type IntentType string

const (
	IntentRunTests        IntentType = "RUN_TESTS"
	IntentAnalyzeFailures IntentType = "ANALYZE_FAILURES"
	IntentGenerateTests   IntentType = "GENERATE_TESTS"
	IntentOptimizeTests   IntentType = "OPTIMIZE_TESTS"
	IntentHealthCheck     IntentType = "HEALTH_CHECK"
	IntentGetStatus       IntentType = "GET_STATUS"
	IntentHelp            IntentType = "HELP"
	IntentUnknown         IntentType = "UNKNOWN"
)

// RiskLevel is an ordered risk tier: LOW < MEDIUM < HIGH < CRITICAL.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Rank returns the ordinal of the level. Unrecognised values rank below LOW.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// ParseRiskLevel converts a registry tier string. Empty or unknown tiers map to LOW.
func ParseRiskLevel(s string) RiskLevel {
	switch RiskLevel(s) {
	case RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(s)
	default:
		return RiskLow
	}
}

// MaxRisk returns the highest of the given levels, or LOW when none are given.
func MaxRisk(levels ...RiskLevel) RiskLevel {
	highest := RiskLow
	for _, l := range levels {
		if l.Rank() > highest.Rank() {
			highest = l
		}
	}
	return highest
}

// ExecutionStrategy selects how the orchestrator schedules plan steps.
type ExecutionStrategy string

const (
	StrategyParallel   ExecutionStrategy = "PARALLEL"
	StrategySequential ExecutionStrategy = "SEQUENTIAL"
)

// StepStatus is the lifecycle state of a step or of a whole execution.
type StepStatus string

const (
	StatusPending   StepStatus = "PENDING"
	StatusRunning   StepStatus = "RUNNING"
	StatusCompleted StepStatus = "COMPLETED"
	StatusFailed    StepStatus = "FAILED"
	StatusCancelled StepStatus = "CANCELLED"
	StatusSkipped   StepStatus = "SKIPPED"
)

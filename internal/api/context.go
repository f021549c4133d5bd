package api

// ParsedCommand is the structured output of the command parser.
type ParsedCommand struct {
	OriginalCommand string                 `json:"originalCommand" yaml:"originalCommand"`
	TestTypes       []TestType             `json:"testTypes" yaml:"testTypes"`
	Services        []string               `json:"services" yaml:"services"`
	Intents         []IntentType           `json:"intents" yaml:"intents"`
	Parameters      map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Confidence      float64                `json:"confidence" yaml:"confidence"`
}

// ExecutionStep is one (action, service, test type) unit of a plan.
type ExecutionStep struct {
	StepID            string                 `json:"stepId" yaml:"stepId"`
	Name              string                 `json:"name" yaml:"name"`
	ActionType        ActionType             `json:"actionType" yaml:"actionType"`
	ServiceName       string                 `json:"serviceName" yaml:"serviceName"`
	TestType          TestType               `json:"testType,omitempty" yaml:"testType,omitempty"`
	Parameters        map[string]interface{} `json:"parameters" yaml:"parameters"`
	Dependencies      []string               `json:"dependencies" yaml:"dependencies"`
	EstimatedDuration string                 `json:"estimatedDuration" yaml:"estimatedDuration"`
	Status            StepStatus             `json:"status" yaml:"status"`
}

// Critical reports whether a failure of this step halts a sequential plan.
func (s ExecutionStep) Critical() bool {
	return s.ActionType == ActionHealthCheck ||
		s.ActionType == ActionRunChaosTests ||
		s.TestType == TestTypeChaos
}

// ExecutionPlan is the ordered list of steps plus the scheduling strategy.
type ExecutionPlan struct {
	Steps []ExecutionStep `json:"steps" yaml:"steps"`
	// ExecutionOrder is a metadata label and is always SEQUENTIAL.
	ExecutionOrder    string            `json:"executionOrder" yaml:"executionOrder"`
	ExecutionStrategy ExecutionStrategy `json:"executionStrategy" yaml:"executionStrategy"`
	EstimatedDuration string            `json:"estimatedDuration" yaml:"estimatedDuration"`
}

// RiskAssessment summarises the risk of running a command.
type RiskAssessment struct {
	OverallRiskLevel     RiskLevel            `json:"overallRiskLevel" yaml:"overallRiskLevel"`
	RiskFactors          []string             `json:"riskFactors" yaml:"riskFactors"`
	RiskLevels           map[string]RiskLevel `json:"riskLevels" yaml:"riskLevels"`
	MitigationStrategies []string             `json:"mitigationStrategies" yaml:"mitigationStrategies"`
	Warnings             []string             `json:"warnings" yaml:"warnings"`
	Confidence           string               `json:"confidence" yaml:"confidence"`
}

// ResourceRequirements describes the expected resource footprint.
type ResourceRequirements struct {
	CPU                  string   `json:"cpu" yaml:"cpu"`
	Memory               string   `json:"memory" yaml:"memory"`
	Storage              string   `json:"storage" yaml:"storage"`
	Network              string   `json:"network" yaml:"network"`
	ExternalDependencies []string `json:"externalDependencies" yaml:"externalDependencies"`
	Priority             string   `json:"priority" yaml:"priority"`
}

// ImpactAnalysis is the derived impact of a command on the system.
type ImpactAnalysis struct {
	Score             float64           `json:"impactScore" yaml:"impactScore"`
	Level             RiskLevel         `json:"impactLevel" yaml:"impactLevel"`
	AffectedEndpoints int               `json:"affectedEndpoints" yaml:"affectedEndpoints"`
	EstimatedDowntime string            `json:"estimatedDowntime" yaml:"estimatedDowntime"`
	ResourceImpact    map[string]string `json:"resourceImpact" yaml:"resourceImpact"`
}

// RiskFactors holds independent per-dimension risk tiers.
type RiskFactors struct {
	BlastRadiusRisk RiskLevel `json:"blastRadiusRisk" yaml:"blastRadiusRisk"`
	TestTypeRisk    RiskLevel `json:"testTypeRisk" yaml:"testTypeRisk"`
	ServiceRisk     RiskLevel `json:"serviceRisk" yaml:"serviceRisk"`
	ActionRisk      RiskLevel `json:"actionRisk" yaml:"actionRisk"`
	OverallRisk     RiskLevel `json:"overallRisk" yaml:"overallRisk"`
}

// SeverityUnknown marks a dependency graph produced after an analysis failure.
const SeverityUnknown = "UNKNOWN"

// DependencyGraph is the per-call result of dependency analysis.
type DependencyGraph struct {
	AffectedServices []string            `json:"affectedServices" yaml:"affectedServices"`
	Dependencies     map[string][]string `json:"dependencies" yaml:"dependencies"`
	BlastRadius      int                 `json:"blastRadius" yaml:"blastRadius"`
	SeverityLevel    string              `json:"severityLevel" yaml:"severityLevel"`
	CriticalPath     []string            `json:"criticalPath" yaml:"criticalPath"`
	ImpactAnalysis   ImpactAnalysis      `json:"impactAnalysis" yaml:"impactAnalysis"`
	IsolationPoints  []string            `json:"isolationPoints" yaml:"isolationPoints"`
	RiskFactors      RiskFactors         `json:"riskFactors" yaml:"riskFactors"`
}

// ComprehensiveContext is the complete analysis of one command. It is built
// once and treated as read-only afterwards.
type ComprehensiveContext struct {
	Command              string               `json:"command" yaml:"command"`
	ParsedCommand        ParsedCommand        `json:"parsedCommand" yaml:"parsedCommand"`
	TestTypes            []TestType           `json:"testTypes" yaml:"testTypes"`
	Services             []string             `json:"services" yaml:"services"`
	Actions              []ActionType         `json:"actions" yaml:"actions"`
	Dependencies         DependencyGraph      `json:"dependencies" yaml:"dependencies"`
	ExecutionPlan        ExecutionPlan        `json:"executionPlan" yaml:"executionPlan"`
	RiskAssessment       RiskAssessment       `json:"riskAssessment" yaml:"riskAssessment"`
	ResourceRequirements ResourceRequirements `json:"resourceRequirements" yaml:"resourceRequirements"`
	EstimatedDuration    string               `json:"estimatedDuration" yaml:"estimatedDuration"`
	Warnings             []string             `json:"warnings" yaml:"warnings"`
	Suggestions          []string             `json:"suggestions" yaml:"suggestions"`
	Confidence           float64              `json:"confidence" yaml:"confidence"`
}

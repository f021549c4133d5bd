package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/pkg/logging"
)

//go:embed defaults.yaml
var defaultTables []byte

// defaultEndpointCount is used for services the catalog does not describe.
const defaultEndpointCount = 5

// TestTypeContext is the static metadata of one test type.
type TestTypeContext struct {
	TestType          api.TestType  `yaml:"testType" json:"testType"`
	Description       string        `yaml:"description" json:"description"`
	Tools             []string      `yaml:"tools" json:"tools"`
	ExecutionTime     string        `yaml:"executionTime" json:"executionTime"`
	ResourceUsage     api.RiskLevel `yaml:"resourceUsage" json:"resourceUsage"`
	Dependencies      []string      `yaml:"dependencies" json:"dependencies"`
	RiskLevel         api.RiskLevel `yaml:"riskLevel" json:"riskLevel"`
	Parallelizable    bool          `yaml:"parallelizable" json:"parallelizable"`
	Criticality       api.RiskLevel `yaml:"criticality" json:"criticality"`
	SupportedServices []string      `yaml:"supportedServices" json:"supportedServices"`
}

// ServiceContext is the static metadata of one service under test.
type ServiceContext struct {
	Name                 string           `yaml:"name" json:"name"`
	Port                 int              `yaml:"port" json:"port"`
	Description          string           `yaml:"description" json:"description"`
	Dependencies         []string         `yaml:"dependencies" json:"dependencies"`
	Endpoints            []string         `yaml:"endpoints" json:"endpoints"`
	EndpointCount        int              `yaml:"endpointCount" json:"endpointCount"`
	SupportedTestTypes   []api.TestType   `yaml:"supportedTestTypes" json:"supportedTestTypes"`
	SupportedActions     []api.ActionType `yaml:"supportedActions" json:"supportedActions"`
	Criticality          api.RiskLevel    `yaml:"criticality" json:"criticality"`
	HealthCheckEndpoints []string         `yaml:"healthCheckEndpoints" json:"healthCheckEndpoints"`
	DeploymentType       string           `yaml:"deploymentType" json:"deploymentType"`
	// Isolatable marks services that can be tested without wider system impact.
	Isolatable bool `yaml:"isolatable" json:"isolatable"`
}

// ActionContext is the static metadata of one action type.
type ActionContext struct {
	ActionType         api.ActionType `yaml:"actionType" json:"actionType"`
	Description        string         `yaml:"description" json:"description"`
	Prerequisites      []string       `yaml:"prerequisites" json:"prerequisites"`
	SupportedServices  []string       `yaml:"supportedServices" json:"supportedServices"`
	SupportedTestTypes []api.TestType `yaml:"supportedTestTypes" json:"supportedTestTypes"`
	ExecutionTime      string         `yaml:"executionTime" json:"executionTime"`
	ResourceUsage      api.RiskLevel  `yaml:"resourceUsage" json:"resourceUsage"`
	RiskLevel          api.RiskLevel  `yaml:"riskLevel" json:"riskLevel"`
	Parallelizable     bool           `yaml:"parallelizable" json:"parallelizable"`
	Criticality        api.RiskLevel  `yaml:"criticality" json:"criticality"`
	OutputTypes        []string       `yaml:"outputTypes" json:"outputTypes"`
}

// document mirrors the on-disk layout of a registry file.
type document struct {
	TestTypes []TestTypeContext                 `yaml:"testTypes"`
	Services  []ServiceContext                  `yaml:"services"`
	Actions   []ActionContext                   `yaml:"actions"`
	Intents   map[api.IntentType]api.ActionType `yaml:"intents"`

	TestTypeDependencies map[api.TestType][]string `yaml:"testTypeDependencies"`
}

// Catalog holds the registry tables. A Catalog is never modified after it has
// been built, so it is safe to share between goroutines without locking.
// Accessors return copies; callers may modify the returned values freely.
type Catalog struct {
	testTypeOrder []api.TestType
	testTypes     map[api.TestType]TestTypeContext

	serviceOrder []string
	services     map[string]ServiceContext

	actionOrder []api.ActionType
	actions     map[api.ActionType]ActionContext

	intents map[api.IntentType]api.ActionType

	// analysisDeps is the external resource table used for blast radius.
	analysisDeps map[api.TestType][]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded registry tables.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultTables)
		if err != nil {
			panic(fmt.Sprintf("embedded registry tables are invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads registry tables from path. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}

	logging.Info("Catalog", "Loaded %d test types, %d services and %d actions from %s",
		len(c.testTypeOrder), len(c.serviceOrder), len(c.actionOrder), path)
	return c, nil
}

// Parse builds a catalog from a YAML registry document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry tables: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{
		testTypes: make(map[api.TestType]TestTypeContext, len(doc.TestTypes)),
		services:  make(map[string]ServiceContext, len(doc.Services)),
		actions:   make(map[api.ActionType]ActionContext, len(doc.Actions)),
		intents:   make(map[api.IntentType]api.ActionType, len(doc.Intents)),

		analysisDeps: make(map[api.TestType][]string, len(doc.TestTypeDependencies)),
	}

	for i, tt := range doc.TestTypes {
		if tt.TestType == "" {
			return nil, fmt.Errorf("testTypes[%d]: testType is required", i)
		}
		if _, exists := c.testTypes[tt.TestType]; exists {
			return nil, fmt.Errorf("testTypes[%d]: duplicate test type %s", i, tt.TestType)
		}
		c.testTypes[tt.TestType] = tt
		c.testTypeOrder = append(c.testTypeOrder, tt.TestType)
	}

	for i, svc := range doc.Services {
		if svc.Name == "" {
			return nil, fmt.Errorf("services[%d]: name is required", i)
		}
		if _, exists := c.services[svc.Name]; exists {
			return nil, fmt.Errorf("services[%d]: duplicate service %s", i, svc.Name)
		}
		if svc.Port < 0 || svc.Port > 65535 {
			return nil, fmt.Errorf("services[%d]: port %d out of range", i, svc.Port)
		}
		c.services[svc.Name] = svc
		c.serviceOrder = append(c.serviceOrder, svc.Name)
	}

	for i, action := range doc.Actions {
		if action.ActionType == "" {
			return nil, fmt.Errorf("actions[%d]: actionType is required", i)
		}
		if _, exists := c.actions[action.ActionType]; exists {
			return nil, fmt.Errorf("actions[%d]: duplicate action %s", i, action.ActionType)
		}
		c.actions[action.ActionType] = action
		c.actionOrder = append(c.actionOrder, action.ActionType)
	}

	for intent, action := range doc.Intents {
		if action == "" {
			return nil, fmt.Errorf("intents.%s: action is required", intent)
		}
		c.intents[intent] = action
	}

	for tt, deps := range doc.TestTypeDependencies {
		c.analysisDeps[tt] = slices.Clone(deps)
	}

	return c, nil
}

// TestType returns the metadata of tt.
func (c *Catalog) TestType(tt api.TestType) (TestTypeContext, bool) {
	ctx, ok := c.testTypes[tt]
	if !ok {
		return TestTypeContext{}, false
	}
	return ctx.clone(), true
}

// Service returns the metadata of the named service.
func (c *Catalog) Service(name string) (ServiceContext, bool) {
	svc, ok := c.services[name]
	if !ok {
		return ServiceContext{}, false
	}
	return svc.clone(), true
}

// Action returns the metadata of action.
func (c *Catalog) Action(action api.ActionType) (ActionContext, bool) {
	ctx, ok := c.actions[action]
	if !ok {
		return ActionContext{}, false
	}
	return ctx.clone(), true
}

// ActionForIntent maps a parser intent to the action it triggers.
func (c *Catalog) ActionForIntent(intent api.IntentType) (api.ActionType, bool) {
	action, ok := c.intents[intent]
	return action, ok
}

// TestTypes returns every test type in table order.
func (c *Catalog) TestTypes() []TestTypeContext {
	out := make([]TestTypeContext, 0, len(c.testTypeOrder))
	for _, tt := range c.testTypeOrder {
		out = append(out, c.testTypes[tt].clone())
	}
	return out
}

// Services returns every service in table order.
func (c *Catalog) Services() []ServiceContext {
	out := make([]ServiceContext, 0, len(c.serviceOrder))
	for _, name := range c.serviceOrder {
		out = append(out, c.services[name].clone())
	}
	return out
}

// Actions returns every action in table order.
func (c *Catalog) Actions() []ActionContext {
	out := make([]ActionContext, 0, len(c.actionOrder))
	for _, action := range c.actionOrder {
		out = append(out, c.actions[action].clone())
	}
	return out
}

// ServiceNames returns the names of all known services in table order.
func (c *Catalog) ServiceNames() []string {
	return slices.Clone(c.serviceOrder)
}

// ServiceDependencies returns the direct dependencies of name, or nil.
func (c *Catalog) ServiceDependencies(name string) []string {
	return slices.Clone(c.services[name].Dependencies)
}

// AnalysisDependencies returns the external resources a test type adds to
// the dependency graph. This table is narrower than the per-test-type
// Dependencies field, which describes everything a test run needs.
func (c *Catalog) AnalysisDependencies(tt api.TestType) []string {
	return slices.Clone(c.analysisDeps[tt])
}

// IsCritical reports whether name is a HIGH criticality service.
func (c *Catalog) IsCritical(name string) bool {
	svc, ok := c.services[name]
	return ok && svc.Criticality == api.RiskHigh
}

// IsIsolatable reports whether name can be tested in isolation.
func (c *Catalog) IsIsolatable(name string) bool {
	return c.services[name].Isolatable
}

// EndpointCount returns the number of endpoints exposed by name. Services
// without an entry count as five.
func (c *Catalog) EndpointCount(name string) int {
	svc, ok := c.services[name]
	if !ok || svc.EndpointCount <= 0 {
		return defaultEndpointCount
	}
	return svc.EndpointCount
}

func (t TestTypeContext) clone() TestTypeContext {
	t.Tools = slices.Clone(t.Tools)
	t.Dependencies = slices.Clone(t.Dependencies)
	t.SupportedServices = slices.Clone(t.SupportedServices)
	return t
}

func (s ServiceContext) clone() ServiceContext {
	s.Dependencies = slices.Clone(s.Dependencies)
	s.Endpoints = slices.Clone(s.Endpoints)
	s.SupportedTestTypes = slices.Clone(s.SupportedTestTypes)
	s.SupportedActions = slices.Clone(s.SupportedActions)
	s.HealthCheckEndpoints = slices.Clone(s.HealthCheckEndpoints)
	return s
}

func (a ActionContext) clone() ActionContext {
	a.Prerequisites = slices.Clone(a.Prerequisites)
	a.SupportedServices = slices.Clone(a.SupportedServices)
	a.SupportedTestTypes = slices.Clone(a.SupportedTestTypes)
	a.OutputTypes = slices.Clone(a.OutputTypes)
	return a
}

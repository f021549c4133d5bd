package dependency

import (
	"fmt"
	"math"
	"slices"

	"github.com/giantswarm/testctl/internal/api"
	"github.com/giantswarm/testctl/internal/catalog"
	"github.com/giantswarm/testctl/pkg/logging"
)

// closureHops bounds the affected-service expansion. Two hops is not a fixed
// point: deeper chains are cut off.
const closureHops = 2

const (
	blastRadiusHigh   = 5
	blastRadiusMedium = 3

	impactPerBlastUnit       = 0.2
	impactPerCriticalService = 0.2
	impactHighThreshold      = 0.7
	impactMediumThreshold    = 0.4
)

// Analyzer computes blast radius, severity and risk factors for a set of test
// types, services and actions. It only reads the catalog and is safe for
// concurrent use.
type Analyzer struct {
	catalog  *catalog.Catalog
	topology *Graph
}

// NewAnalyzer creates an Analyzer over the given registry tables.
func NewAnalyzer(cat *catalog.Catalog) *Analyzer {
	return &Analyzer{
		catalog:  cat,
		topology: FromCatalog(cat),
	}
}

// Topology exposes the service graph the analyzer works on.
func (a *Analyzer) Topology() *Graph {
	return a.topology
}

// AnalyzeDependencies builds a DependencyGraph for the request. It never
// panics: any failure yields ErrorGraph().
func (a *Analyzer) AnalyzeDependencies(testTypes []api.TestType, services []string, actions []api.ActionType) (graph api.DependencyGraph) {
	logging.Debug("DependencyAnalyzer", "Analyzing dependencies for testTypes=%v services=%v actions=%v", testTypes, services, actions)

	defer func() {
		if r := recover(); r != nil {
			logging.Error("DependencyAnalyzer", fmt.Errorf("%v", r), "Dependency analysis failed")
			graph = ErrorGraph()
		}
	}()

	affected := a.affectedServices(services)
	deps := a.mergedDependencies(testTypes, services)
	blastRadius := BlastRadius(affected, deps)

	graph = api.DependencyGraph{
		AffectedServices: affected,
		Dependencies:     deps,
		BlastRadius:      blastRadius,
		SeverityLevel:    string(Severity(blastRadius, testTypes, actions)),
		CriticalPath:     a.criticalPath(services, deps),
		ImpactAnalysis:   a.impact(testTypes, services, blastRadius),
		IsolationPoints:  a.isolationPoints(services),
		RiskFactors:      a.riskFactors(testTypes, services, actions, blastRadius),
	}

	logging.Info("DependencyAnalyzer", "Dependency analysis completed with blast radius %d (severity %s)", blastRadius, graph.SeverityLevel)
	return graph
}

// ErrorGraph is the zeroed graph returned when analysis fails.
func ErrorGraph() api.DependencyGraph {
	return api.DependencyGraph{
		AffectedServices: []string{},
		Dependencies:     map[string][]string{},
		SeverityLevel:    api.SeverityUnknown,
		CriticalPath:     []string{},
		ImpactAnalysis: api.ImpactAnalysis{
			ResourceImpact: map[string]string{},
		},
		IsolationPoints: []string{},
	}
}

func (a *Analyzer) affectedServices(services []string) []string {
	seeds := make([]NodeID, 0, len(services))
	for _, s := range services {
		seeds = append(seeds, NodeID(s))
	}

	expanded := a.topology.Expand(seeds, closureHops)
	out := make([]string, 0, len(expanded))
	for _, id := range expanded {
		out = append(out, string(id))
	}
	return out
}

// mergedDependencies returns, per requested service, its static dependencies
// followed by the analysis dependencies of every requested test type,
// de-duplicated in first-seen order.
func (a *Analyzer) mergedDependencies(testTypes []api.TestType, services []string) map[string][]string {
	out := make(map[string][]string, len(services))
	for _, svc := range services {
		merged := a.catalog.ServiceDependencies(svc)
		for _, tt := range testTypes {
			merged = append(merged, a.catalog.AnalysisDependencies(tt)...)
		}
		out[svc] = dedupe(merged)
	}
	return out
}

// BlastRadius is |affected| plus the size of every per-service dependency list.
func BlastRadius(affected []string, deps map[string][]string) int {
	radius := len(affected)
	for _, d := range deps {
		radius += len(d)
	}
	return radius
}

// Severity classifies a request. Chaos test types and chaos actions are HIGH
// regardless of blast radius.
func Severity(blastRadius int, testTypes []api.TestType, actions []api.ActionType) api.RiskLevel {
	switch {
	case blastRadius >= blastRadiusHigh:
		return api.RiskHigh
	case slices.Contains(testTypes, api.TestTypeChaos):
		return api.RiskHigh
	case slices.Contains(actions, api.ActionRunChaosTests):
		return api.RiskHigh
	case blastRadius >= blastRadiusMedium:
		return api.RiskMedium
	default:
		return api.RiskLow
	}
}

func (a *Analyzer) criticalPath(services []string, deps map[string][]string) []string {
	var path []string
	if slices.Contains(services, "gateway-service") {
		path = append(path, "gateway-service")
	}
	for _, svc := range services {
		if a.catalog.IsCritical(svc) && !slices.Contains(path, svc) {
			path = append(path, svc)
		}
	}

	critical := slices.Clone(path)
	for _, svc := range critical {
		for _, dep := range deps[svc] {
			if !slices.Contains(path, dep) {
				path = append(path, dep)
			}
		}
	}

	if path == nil {
		return []string{}
	}
	return path
}

func (a *Analyzer) impact(testTypes []api.TestType, services []string, blastRadius int) api.ImpactAnalysis {
	score := ImpactScore(testTypes, blastRadius, a.countCritical(services))

	endpoints := 0
	for _, svc := range services {
		endpoints += a.catalog.EndpointCount(svc)
	}

	return api.ImpactAnalysis{
		Score:             score,
		Level:             ImpactLevel(score),
		AffectedEndpoints: endpoints,
		EstimatedDowntime: EstimatedDowntime(testTypes),
		ResourceImpact:    ResourceImpact(testTypes),
	}
}

func (a *Analyzer) countCritical(services []string) int {
	n := 0
	for _, svc := range services {
		if a.catalog.IsCritical(svc) {
			n++
		}
	}
	return n
}

// ImpactScore adds 0.2 per blast radius unit, a weight per test type and 0.2
// per critical service, capped at 1.0.
func ImpactScore(testTypes []api.TestType, blastRadius, criticalServices int) float64 {
	score := float64(blastRadius) * impactPerBlastUnit
	for _, tt := range testTypes {
		score += testTypeImpactWeight(tt)
	}
	score += float64(criticalServices) * impactPerCriticalService
	return math.Min(score, 1.0)
}

func testTypeImpactWeight(tt api.TestType) float64 {
	switch tt {
	case api.TestTypeChaos:
		return 0.5
	case api.TestTypePerformance, api.TestTypeSecurity:
		return 0.3
	case api.TestTypeEndToEnd:
		return 0.2
	default:
		return 0.1
	}
}

// ImpactLevel maps an impact score onto a tier.
func ImpactLevel(score float64) api.RiskLevel {
	switch {
	case score >= impactHighThreshold:
		return api.RiskHigh
	case score >= impactMediumThreshold:
		return api.RiskMedium
	default:
		return api.RiskLow
	}
}

// EstimatedDowntime adds the expected downtime of each test type.
func EstimatedDowntime(testTypes []api.TestType) string {
	minutes := 0
	for _, tt := range testTypes {
		switch tt {
		case api.TestTypeChaos:
			minutes += 5
		case api.TestTypePerformance:
			minutes += 10
		case api.TestTypeEndToEnd:
			minutes += 15
		default:
			minutes += 2
		}
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// ResourceImpact returns the cpu, memory and network tiers for a set of test types.
func ResourceImpact(testTypes []api.TestType) map[string]string {
	has := func(tt api.TestType) bool { return slices.Contains(testTypes, tt) }

	cpu := api.RiskLow
	if has(api.TestTypePerformance) {
		cpu = api.RiskHigh
	} else if has(api.TestTypeChaos) {
		cpu = api.RiskMedium
	}

	memory := api.RiskLow
	if has(api.TestTypePerformance) {
		memory = api.RiskHigh
	} else if has(api.TestTypeIntegration) {
		memory = api.RiskMedium
	}

	network := api.RiskLow
	if has(api.TestTypeAPI) || has(api.TestTypeIntegration) {
		network = api.RiskMedium
	}

	return map[string]string{
		"cpu":     string(cpu),
		"memory":  string(memory),
		"network": string(network),
	}
}

func (a *Analyzer) isolationPoints(services []string) []string {
	points := []string{}
	for _, svc := range services {
		if a.catalog.IsIsolatable(svc) {
			points = append(points, svc)
		}
	}
	return points
}

func (a *Analyzer) riskFactors(testTypes []api.TestType, services []string, actions []api.ActionType, blastRadius int) api.RiskFactors {
	f := api.RiskFactors{
		BlastRadiusRisk: blastRadiusRisk(blastRadius),
		TestTypeRisk:    testTypeRisk(testTypes),
		ServiceRisk:     api.RiskMedium,
		ActionRisk:      actionRisk(actions),
	}
	if a.countCritical(services) > 0 {
		f.ServiceRisk = api.RiskHigh
	}
	f.OverallRisk = api.MaxRisk(f.BlastRadiusRisk, f.TestTypeRisk, f.ServiceRisk, f.ActionRisk)
	return f
}

func blastRadiusRisk(blastRadius int) api.RiskLevel {
	switch {
	case blastRadius >= blastRadiusHigh:
		return api.RiskHigh
	case blastRadius >= blastRadiusMedium:
		return api.RiskMedium
	default:
		return api.RiskLow
	}
}

func testTypeRisk(testTypes []api.TestType) api.RiskLevel {
	switch {
	case slices.Contains(testTypes, api.TestTypeChaos):
		return api.RiskHigh
	case slices.Contains(testTypes, api.TestTypePerformance), slices.Contains(testTypes, api.TestTypeSecurity):
		return api.RiskMedium
	default:
		return api.RiskLow
	}
}

func actionRisk(actions []api.ActionType) api.RiskLevel {
	switch {
	case slices.Contains(actions, api.ActionRunChaosTests):
		return api.RiskHigh
	case slices.Contains(actions, api.ActionRunPerformanceTests), slices.Contains(actions, api.ActionRunSecurityTests):
		return api.RiskMedium
	default:
		return api.RiskLow
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

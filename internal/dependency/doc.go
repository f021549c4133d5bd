// Package dependency analyzes how far a test request reaches into the system.
//
// # Topology
//
// Graph is the service topology built from the catalog: one KindService node
// per service and one KindResource node per external resource (databases).
// Dependencies and Dependents answer direct-edge queries; Expand walks a fixed
// number of hops.
//
// # Analysis
//
// Analyzer.AnalyzeDependencies turns (test types, services, actions) into an
// api.DependencyGraph:
//
//  1. affected services: the requested services plus two hops of dependencies
//  2. per-service dependency lists: static service dependencies merged with
//     the dependencies of every requested test type
//  3. blast radius: |affected| plus the length of every dependency list
//  4. severity, critical path, impact analysis and isolation points
//  5. risk factors per dimension, with the overall risk as their maximum
//
// The closure is deliberately capped at two hops. For a chain a -> b -> c -> d
// a request for a reports a, b and c but not d. Callers that need full
// reachability should call Graph.Expand with a larger hop count.
//
// Analysis never panics outward. Any failure returns ErrorGraph(), whose
// severity is "UNKNOWN".
package dependency

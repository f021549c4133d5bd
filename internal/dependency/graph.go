package dependency

import (
	"slices"
	"sort"

	"github.com/giantswarm/testctl/internal/catalog"
)

// NodeID is the unique identifier for a node inside a dependency graph. For
// services it is the service name; external resources use their catalog
// label, e.g. "users-db".
type NodeID string

// NodeKind categorises nodes.
type NodeKind int

const (
	KindUnknown NodeKind = iota
	KindService
	KindResource // databases and other non-service dependencies
)

// Node is one entry of the service topology together with its dependency list.
//
// Cycles are tolerated: traversal is bounded by hop count, never by reaching
// a leaf.
type Node struct {
	ID        NodeID
	Kind      NodeKind
	DependsOn []NodeID
	Critical  bool
}

// Graph is a very small helper to answer dependency queries. It is *not*
// thread-safe while being built; once populated it is only read.
type Graph struct {
	nodes map[NodeID]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// FromCatalog builds the topology of every catalog service. Dependencies that
// are not services themselves become resource nodes.
func FromCatalog(cat *catalog.Catalog) *Graph {
	g := New()
	for _, svc := range cat.Services() {
		deps := make([]NodeID, 0, len(svc.Dependencies))
		for _, dep := range svc.Dependencies {
			deps = append(deps, NodeID(dep))
		}
		g.AddNode(Node{
			ID:        NodeID(svc.Name),
			Kind:      KindService,
			DependsOn: deps,
			Critical:  cat.IsCritical(svc.Name),
		})
	}

	for _, svc := range cat.Services() {
		for _, dep := range svc.Dependencies {
			if g.Get(NodeID(dep)) == nil {
				g.AddNode(Node{ID: NodeID(dep), Kind: KindResource})
			}
		}
	}
	return g
}

// AddNode adds (or replaces) a node in the graph.
func (g *Graph) AddNode(n Node) {
	if g.nodes == nil {
		g.nodes = make(map[NodeID]*Node)
	}
	// Copy to avoid external mutations
	copied := n
	copied.DependsOn = slices.Clone(n.DependsOn)
	g.nodes[n.ID] = &copied
}

// Get returns a pointer to the stored node or nil if it does not exist.
func (g *Graph) Get(id NodeID) *Node {
	return g.nodes[id]
}

// Dependencies returns a slice of immediate dependency IDs for the given node.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	if n, ok := g.nodes[id]; ok {
		return slices.Clone(n.DependsOn)
	}
	return nil
}

// Dependents returns all node IDs that have a direct dependency on the given
// node, sorted by ID. This is an O(n) walk but the graph is tiny.
func (g *Graph) Dependents(id NodeID) []NodeID {
	var res []NodeID
	for _, n := range g.nodes {
		if slices.Contains(n.DependsOn, id) {
			res = append(res, n.ID)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Expand returns seeds followed by everything reachable within hops steps,
// in first-seen order and without duplicates. Each hop unions the direct
// dependencies of every node collected so far. Seeds that are unknown to the
// graph are kept.
func (g *Graph) Expand(seeds []NodeID, hops int) []NodeID {
	seen := make(map[NodeID]bool, len(seeds))
	out := make([]NodeID, 0, len(seeds))
	add := func(id NodeID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}

	for _, id := range seeds {
		add(id)
	}
	for hop := 0; hop < hops; hop++ {
		frontier := slices.Clone(out)
		for _, id := range frontier {
			for _, dep := range g.Dependencies(id) {
				add(dep)
			}
		}
	}
	return out
}

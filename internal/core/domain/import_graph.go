package domain

import (
	"iter"
	"slices"
	"sync"
)

// ImportGraph records which modules imported which during a single build.
// It is safe for concurrent use; the build engine resolves imports from many goroutines.
type ImportGraph struct {
	mu    sync.Mutex
	nodes map[string]ResolvedIdentity
	edges map[string][]string
}

// NewImportGraph creates a new empty ImportGraph.
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		nodes: make(map[string]ResolvedIdentity),
		edges: make(map[string][]string),
	}
}

// Record adds an edge from the importer path to the resolved identity.
// An empty importer records the identity as a root.
func (g *ImportGraph) Record(importer string, id ResolvedIdentity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[id.Path] = id
	if importer == "" || importer == id.Path {
		return
	}
	if !slices.Contains(g.edges[importer], id.Path) {
		g.edges[importer] = append(g.edges[importer], id.Path)
	}
}

// Len returns the number of distinct modules recorded.
func (g *ImportGraph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Imports returns the sorted paths imported directly by the given path.
func (g *ImportGraph) Imports(importer string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := slices.Clone(g.edges[importer])
	slices.Sort(out)
	return out
}

// Walk yields every recorded identity with dependencies before their importers.
// Siblings are visited in path order. Cycles are broken at the first revisit.
func (g *ImportGraph) Walk() iter.Seq[ResolvedIdentity] {
	order := g.order()
	return func(yield func(ResolvedIdentity) bool) {
		for _, id := range order {
			if !yield(id) {
				return
			}
		}
	}
}

// Order returns the identities produced by Walk as a slice.
func (g *ImportGraph) Order() []ResolvedIdentity {
	return g.order()
}

func (g *ImportGraph) order() []ResolvedIdentity {
	g.mu.Lock()
	defer g.mu.Unlock()

	imported := make(map[string]bool, len(g.nodes))
	for _, targets := range g.edges {
		for _, t := range targets {
			imported[t] = true
		}
	}

	keys := make([]string, 0, len(g.nodes))
	for p := range g.nodes {
		keys = append(keys, p)
	}
	slices.Sort(keys)

	// Roots first, then anything only reachable through a cycle.
	starts := make([]string, 0, len(keys))
	for _, p := range keys {
		if !imported[p] {
			starts = append(starts, p)
		}
	}
	starts = append(starts, keys...)

	out := make([]ResolvedIdentity, 0, len(g.nodes))
	seen := make(map[string]bool, len(g.nodes))

	var visit func(p string)
	visit = func(p string) {
		if seen[p] {
			return
		}
		seen[p] = true
		children := slices.Clone(g.edges[p])
		slices.Sort(children)
		for _, c := range children {
			visit(c)
		}
		if id, ok := g.nodes[p]; ok {
			out = append(out, id)
		}
	}

	for _, p := range starts {
		visit(p)
	}
	return out
}

package models

// DependencyGraph maps table names to the tables they reference through
// foreign keys. Registration order and per-table edge order are both
// first-seen, so iteration is deterministic.
type DependencyGraph struct {
	order []string
	deps  map[string][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{deps: make(map[string][]string)}
}

// Register adds a table with no dependencies yet. Registering an already
// known table is a no-op; a table always has an entry, even with zero edges.
func (g *DependencyGraph) Register(table string) {
	if _, ok := g.deps[table]; ok {
		return
	}
	g.order = append(g.order, table)
	g.deps[table] = []string{}
}

// AddDependency records that table references ref. Duplicate edges collapse.
func (g *DependencyGraph) AddDependency(table, ref string) {
	g.Register(table)
	for _, d := range g.deps[table] {
		if d == ref {
			return
		}
	}
	g.deps[table] = append(g.deps[table], ref)
}

// Tables returns all registered tables in registration order.
func (g *DependencyGraph) Tables() []string {
	return g.order
}

// Dependencies returns the tables referenced by table, in first-seen order.
func (g *DependencyGraph) Dependencies(table string) []string {
	return g.deps[table]
}

// Has reports whether the table is registered.
func (g *DependencyGraph) Has(table string) bool {
	_, ok := g.deps[table]
	return ok
}

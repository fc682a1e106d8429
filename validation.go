package acorn

// validationNode is one producer in a ValidationGraph.
type validationNode struct {
	flag         Flags
	dependencies Flags
	dependents   Flags
	onValidate   func()
	valid        bool
}

// ValidationGraph tracks which derived values of a component are stale and
// recomputes them lazily, in registration order, on Validate.
//
// Each producer owns exactly one flag. A producer depends on other flags
// (they must be valid before it runs, and invalidating them invalidates it)
// and may name dependents (flags it invalidates when it becomes invalid).
// Flags without a producer are always valid.
//
// A ValidationGraph is not safe for concurrent use.
type ValidationGraph struct {
	nodes      []validationNode
	invalid    Flags
	produced   Flags
	validating int
}

// NewValidationGraph returns an empty graph.
func NewValidationGraph() *ValidationGraph {
	return &ValidationGraph{}
}

// AddNode registers the producer of flag and returns its index. The new node
// starts invalid. Panics with ErrConfiguration if flag is not a single bit,
// is already produced, lists itself as a dependency, or if the graph is in
// the middle of a Validate call.
func (g *ValidationGraph) AddNode(flag, dependencies, dependents Flags, onValidate func()) int {
	if g.validating > 0 {
		fail(ErrConfiguration, "reason", "node added during validate", "flag", flag)
	}
	if flag == 0 || flag&(flag-1) != 0 {
		fail(ErrConfiguration, "reason", "producer flag must be a single bit", "flag", flag)
	}
	if g.produced&flag != 0 {
		fail(ErrConfiguration, "reason", "flag already has a producer", "flag", flag)
	}
	if dependencies&flag != 0 {
		fail(ErrConfiguration, "reason", "flag depends on itself", "flag", flag)
	}
	g.nodes = append(g.nodes, validationNode{
		flag:         flag,
		dependencies: dependencies,
		dependents:   dependents,
		onValidate:   onValidate,
	})
	g.produced |= flag
	g.invalid |= flag
	return len(g.nodes) - 1
}

// Invalidate marks flags invalid along with everything that depends on them
// or is listed as their dependent, transitively. It returns only the bits
// that were valid before the call; zero means nothing changed.
func (g *ValidationGraph) Invalidate(flags Flags) Flags {
	closure := flags & g.produced
	if closure == 0 {
		return 0
	}
	for {
		expanded := closure
		for i := range g.nodes {
			n := &g.nodes[i]
			if n.flag&expanded != 0 || n.dependencies&expanded != 0 {
				expanded |= n.flag | n.dependents
			}
		}
		expanded &= g.produced
		if expanded == closure {
			break
		}
		closure = expanded
	}

	newlyInvalid := closure &^ g.invalid
	if newlyInvalid == 0 {
		return 0
	}
	for i := range g.nodes {
		if g.nodes[i].flag&newlyInvalid != 0 {
			g.nodes[i].valid = false
		}
	}
	g.invalid |= newlyInvalid
	return newlyInvalid
}

// Validate brings flags and their transitive dependencies up to date. Nodes
// are visited in registration order, skipping any whose dependencies are still
// invalid, and the scan repeats until the requested flags are valid. Each
// producer runs at most once per call and is marked valid before its callback
// runs, so a callback may safely call Validate again.
//
// It returns the bits that were invalid before the call and valid after.
// A pass that makes no progress indicates a dependency cycle and panics with
// ErrConfiguration.
func (g *ValidationGraph) Validate(flags Flags) Flags {
	target := g.dependencyClosure(flags) & g.invalid
	if target == 0 {
		return 0
	}
	before := g.invalid
	g.validating++
	defer func() { g.validating-- }()

	var visited Flags
	for g.invalid&target&^visited != 0 {
		progress := false
		for i := range g.nodes {
			n := &g.nodes[i]
			if n.valid || n.flag&target == 0 || n.flag&visited != 0 {
				continue
			}
			if n.dependencies&g.invalid&^visited != 0 {
				continue
			}
			n.valid = true
			g.invalid &^= n.flag
			visited |= n.flag
			progress = true
			if n.onValidate != nil {
				n.onValidate()
			}
		}
		if !progress {
			fail(ErrConfiguration, "reason", "no progress, dependency cycle", "pending", g.invalid&target&^visited)
		}
	}
	return before &^ g.invalid
}

// dependencyClosure expands flags with the dependencies of their producers.
func (g *ValidationGraph) dependencyClosure(flags Flags) Flags {
	closure := flags & g.produced
	for {
		expanded := closure
		for i := range g.nodes {
			n := &g.nodes[i]
			if n.flag&expanded != 0 {
				expanded |= n.dependencies
			}
		}
		expanded &= g.produced
		if expanded == closure {
			return closure
		}
		closure = expanded
	}
}

// IsValid reports whether every bit in flags is valid.
func (g *ValidationGraph) IsValid(flags Flags) bool {
	return g.invalid&flags == 0
}

// InvalidFlags returns the current invalid mask.
func (g *ValidationGraph) InvalidFlags() Flags {
	return g.invalid
}

// Produced returns the union of every registered producer flag.
func (g *ValidationGraph) Produced() Flags {
	return g.produced
}

// Len returns the number of registered producers.
func (g *ValidationGraph) Len() int {
	return len(g.nodes)
}

// IsValidating reports whether a Validate call is in progress.
func (g *ValidationGraph) IsValidating() bool {
	return g.validating > 0
}

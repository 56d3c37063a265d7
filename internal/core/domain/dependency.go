package domain

// Dependency is a directed edge: resolving Source requires Target.
// Context describes where the edge was declared and does not take part in equality.
type Dependency struct {
	Source Key
	Target Key

	// Optional edges are dropped when the target cannot be resolved.
	Optional bool

	// Lazy edges go through a provider wrapper, so the target is not
	// needed while the source is being constructed.
	Lazy bool

	// CrossNode edges are recorded by forwarding bindings; the target lives
	// in the linked parent or child node under the same key.
	CrossNode bool

	Context string
}

// Edge is the identity of a Dependency.
type Edge struct {
	Source    Key
	Target    Key
	Optional  bool
	Lazy      bool
	CrossNode bool
}

// NewDependency creates a required edge from source to target.
func NewDependency(source, target Key, context string) Dependency {
	return Dependency{Source: source, Target: target, Context: context}
}

// RootDependency creates an edge from the Ginjector to target.
func RootDependency(target Key, optional bool, context string) Dependency {
	return Dependency{Source: Ginjector, Target: target, Optional: optional, Context: context}
}

// Edge returns the comparable identity of d.
func (d Dependency) Edge() Edge {
	return Edge{
		Source:    d.Source,
		Target:    d.Target,
		Optional:  d.Optional,
		Lazy:      d.Lazy,
		CrossNode: d.CrossNode,
	}
}

// Equal reports whether d and other describe the same edge.
func (d Dependency) Equal(other Dependency) bool {
	return d.Edge() == other.Edge()
}

// IsRoot reports whether the edge leaves the Ginjector.
func (d Dependency) IsRoot() bool {
	return d.Source.IsGinjector()
}

// String renders the edge for diagnostics.
func (d Dependency) String() string {
	arrow := " -> "
	if d.Optional {
		arrow = " -?-> "
	}
	return d.Source.String() + arrow + d.Target.String()
}

// Requirements splits the targets a binding depends on into required and optional keys.
type Requirements struct {
	Required []Key
	Optional []Key
}

// requirementsOf derives the requirement sets from a binding's non-root edges.
// A key reached by both a required and an optional edge counts as required.
func requirementsOf(deps []Dependency) Requirements {
	var reqs Requirements
	required := make(map[Key]bool)
	for _, d := range deps {
		if d.IsRoot() || d.CrossNode || d.Optional {
			continue
		}
		if !required[d.Target] {
			required[d.Target] = true
			reqs.Required = append(reqs.Required, d.Target)
		}
	}
	optional := make(map[Key]bool)
	for _, d := range deps {
		if d.IsRoot() || d.CrossNode || !d.Optional {
			continue
		}
		if !required[d.Target] && !optional[d.Target] {
			optional[d.Target] = true
			reqs.Optional = append(reqs.Optional, d.Target)
		}
	}
	return reqs
}

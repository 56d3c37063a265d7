package resolver

import (
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/depgraph"
	"go.trai.ch/zerr"
)

// checkHierarchy validates the explicit declarations before anything is resolved:
// a key may be bound once per node and not both in a node and in one of its
// ancestors, and every exposure must name a child that binds the key.
func (r *Resolver) checkHierarchy(tree *domain.Tree) error {
	for n := range tree.Nodes() {
		for _, c := range n.Conflicts() {
			key := c.Duplicate.Key()
			r.report(false, domain.DiagDoubleBinding,
				"conflict "+n.Path()+" "+key.String()+" "+c.Duplicate.Context().String(),
				"%s is bound more than once in %s: %s and %s",
				key, n.Path(), c.Existing.Context(), c.Duplicate.Context())
		}
		for key, b := range n.Bindings() {
			switch fwd := b.(type) {
			case *domain.ParentForwardBinding:
				continue
			case *domain.ChildExposeBinding:
				if fwd.Child.Parent() != n {
					r.sink.Errorf(domain.DiagInternal, "%s in %s is exposed from %s, which is not a child", key, n.Path(), fwd.Child.Path())
					err := zerr.With(zerr.Wrap(domain.ErrInternalInvariant, "inconsistent tree"), "key", key.String())
					return zerr.With(err, "node", n.Path())
				}
				inner, ok := fwd.Child.Binding(key)
				if !ok || inner.Kind() == domain.KindParentForward {
					r.report(false, domain.DiagUnsatisfiable, "expose "+fwd.Child.Path()+" "+key.String(),
						"%s is exposed from %s but not explicitly bound there", key, fwd.Child.Path())
				}
			}
			r.checkAncestors(n, key, b)
		}
	}
	return nil
}

func (r *Resolver) checkAncestors(n *domain.Node, key domain.Key, b domain.Binding) {
	for _, a := range n.Chain()[1:] {
		existing, ok := a.Binding(key)
		if !ok {
			continue
		}
		switch fwd := existing.(type) {
		case *domain.ParentForwardBinding:
			continue
		case *domain.ChildExposeBinding:
			if fwd.Child == n || fwd.Child.IsAncestorOf(n) {
				continue
			}
		}
		r.report(false, domain.DiagDoubleBinding, "hierarchy "+n.Path()+" "+key.String(),
			"%s is bound in %s (%s) and in its ancestor %s (%s)",
			key, n.Path(), b.Context(), a.Path(), existing.Context())
		return
	}
}

type vertex struct {
	node *domain.Node
	key  domain.Key
}

// checkCycles reports every required cycle that span explicit bindings and forwarding
// entries across nodes. Edges through providers are lazy and never close a cycle.
func (r *Resolver) checkCycles(tree *domain.Tree) error {
	var roots []vertex
	for n := range tree.Nodes() {
		for key := range n.Bindings() {
			roots = append(roots, vertex{node: n, key: key})
		}
	}

	cycles := depgraph.FindCycles(roots, func(v vertex) []vertex {
		b, ok := v.node.Binding(v.key)
		if !ok {
			return nil
		}
		switch fwd := b.(type) {
		case *domain.ParentForwardBinding:
			return []vertex{{node: fwd.Parent, key: v.key}}
		case *domain.ChildExposeBinding:
			return []vertex{{node: fwd.Child, key: v.key}}
		}
		var out []vertex
		for _, dep := range b.Dependencies() {
			if dep.IsRoot() || dep.Lazy || dep.CrossNode || dep.Optional {
				continue
			}
			if v.node.HasBinding(dep.Target) {
				out = append(out, vertex{node: v.node, key: dep.Target})
			}
		}
		return out
	})
	for _, cycle := range cycles {
		keys := make([]domain.Key, 0, len(cycle))
		for _, v := range cycle {
			if len(keys) > 0 && keys[len(keys)-1] == v.key {
				continue
			}
			keys = append(keys, v.key)
		}
		chain := depgraph.FormatKeys(keys)
		r.report(false, domain.DiagCircular, "cycle "+chain, "cycle detected: %s", chain)
	}
	return nil
}

package resolver

import (
	"fmt"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/depgraph"
	"go.trai.ch/zerr"
)

// propagateFailures fails every created key, and every explicit binding of the
// origin, that reaches a failed key through a required edge. Optional edges absorb
// the failure.
func (b *build) propagateFailures() {
	queue := append([]domain.Key(nil), b.failOrder...)
	for len(queue) > 0 {
		failed := queue[0]
		queue = queue[1:]
		for _, dep := range b.graph.DependantsOf(failed) {
			if dep.IsRoot() || dep.Optional {
				continue
			}
			src := dep.Source
			if _, ok := b.created[src]; !ok && !b.boundAtOrigin(src) {
				continue
			}
			if _, done := b.failures[src]; done {
				continue
			}
			cause := failed
			b.fail(src, failure{
				kind:   b.failures[failed].kind,
				id:     "dependant " + src.String(),
				format: "%s cannot be created because its dependency %s failed",
				args:   []any{src, failed},
				cause:  &cause,
			})
			queue = append(queue, src)
		}
	}
}

func (b *build) boundAtOrigin(key domain.Key) bool {
	existing, ok := b.origin.Binding(key)
	return ok && !domain.IsForwarding(existing)
}

// reportFailures sends each failure to the sink once. Failures that no required path
// from the injector reaches are warnings.
func (b *build) reportFailures() {
	if len(b.failOrder) == 0 {
		return
	}
	required := b.graph.RequiredKeys(domain.Ginjector)

	severe := make(map[string]bool)
	for _, k := range b.failOrder {
		if required[k] {
			severe[b.failures[k].id] = true
		}
	}

	for _, k := range b.failOrder {
		f := b.failures[k]
		isRequired := severe[f.id]
		format := f.format
		args := append([]any(nil), f.args...)
		if path := b.graph.ShortestPath(domain.Ginjector, k, isRequired); len(path) > 1 {
			format += "; path: %s"
			args = append(args, depgraph.FormatPath(path))
		}
		format += "; requested in %s"
		args = append(args, b.origin.Path())
		b.r.report(!isRequired, f.kind, f.id, format, args...)
	}
}

// position computes the chain index of every created key: as high as its limit
// allows but no higher than any of its resolved dependencies.
func (b *build) position() {
	for _, k := range b.order {
		if _, failed := b.failures[k]; !failed {
			b.pos[k] = b.limits[k]
		}
	}
	for changed := true; changed; {
		changed = false
		for _, k := range b.order {
			p, ok := b.pos[k]
			if !ok {
				continue
			}
			for _, dep := range b.created[k].Dependencies() {
				if dep.IsRoot() {
					continue
				}
				idx, resolved := b.ownerIndex(dep.Target)
				if resolved && idx < p {
					p = idx
					changed = true
				}
			}
			b.pos[k] = p
		}
	}
}

// ownerIndex returns the chain index that provides key for this build.
func (b *build) ownerIndex(key domain.Key) (int, bool) {
	if idx, ok := b.owners[key]; ok {
		return idx, true
	}
	idx, ok := b.pos[key]
	return idx, ok
}

// install records the created bindings at their positions and links every user of a
// higher binding to it with forwarding entries.
func (b *build) install(demands []domain.Dependency) {
	for _, k := range b.order {
		p, ok := b.pos[k]
		if !ok {
			continue
		}
		node := b.chain[p]
		binding := b.created[k]
		if err := node.AddBinding(binding); err != nil {
			b.doubleBinding(k, node, err)
			delete(b.pos, k)
			continue
		}
		node.SetScope(k, b.scopes[k])
		for _, m := range binding.MemberInjectRequests() {
			node.AddMemberInjection(m)
		}
	}

	for _, k := range b.order {
		p, ok := b.pos[k]
		if !ok {
			continue
		}
		for _, dep := range b.created[k].Dependencies() {
			if dep.IsRoot() {
				continue
			}
			if b.err = b.linkUp(dep.Target, p); b.err != nil {
				return
			}
		}
	}
	for _, d := range demands {
		if b.err = b.linkUp(d.Target, 0); b.err != nil {
			return
		}
	}
}

// linkUp forwards key from chain index from up to the node that provides it.
func (b *build) linkUp(key domain.Key, from int) error {
	to, ok := b.ownerIndex(key)
	if !ok || to <= from {
		return nil
	}
	owner, ok := b.chain[to].Binding(key)
	if !ok {
		return nil
	}
	for i := from; i < to; i++ {
		node := b.chain[i]
		if existing, ok := node.Binding(key); ok {
			if fwd, isFwd := existing.(*domain.ParentForwardBinding); isFwd && fwd.Parent == b.chain[i+1] {
				continue
			}
			return b.invariant("cannot forward %s in %s: the node already has a binding for it", key, node)
		}
		if err := node.AddBinding(domain.NewParentForwardBinding(key, b.chain[i+1], owner.GetterPackage())); err != nil {
			return zerr.Wrap(err, "failed to record forwarding binding")
		}
	}
	return nil
}

func (b *build) doubleBinding(key domain.Key, node *domain.Node, err error) {
	existing, _ := node.Binding(key)
	b.r.report(false, domain.DiagDoubleBinding, fmt.Sprintf("double %s %s", node.Path(), key),
		"%s is bound more than once in %s: %s and %s",
		key, node.Path(), existing.Context(), b.created[key].Context())
	b.r.logger.Debug(err.Error())
}

package resolver

import (
	"errors"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/depgraph"
	"go.trai.ch/zerr"
)

// failure describes why a key could not be resolved in a build.
// Root causes carry a message; propagated failures name the dependency that failed.
type failure struct {
	kind   domain.DiagnosticKind
	id     string
	format string
	args   []any
	cause  *domain.Key
}

// frame is an entry of the explicit resolution stack.
type frame struct {
	key  domain.Key
	via  domain.Dependency
	deps []domain.Dependency
	next int
}

// build resolves a set of demands on behalf of one origin node.
// Positions are indices into chain: 0 is the origin, the last entry is the root.
type build struct {
	r      *Resolver
	origin *domain.Node
	chain  []*domain.Node
	graph  *depgraph.Graph

	owners  map[domain.Key]int
	created map[domain.Key]domain.Binding
	scopes  map[domain.Key]domain.Scope
	limits  map[domain.Key]int
	pos     map[domain.Key]int
	order   []domain.Key

	failures  map[domain.Key]failure
	failOrder []domain.Key

	explored map[domain.Key]bool
	stack    []frame
	onStack  map[domain.Key]int

	err error
}

func newBuild(r *Resolver, origin *domain.Node) *build {
	return &build{
		r:        r,
		origin:   origin,
		chain:    origin.Chain(),
		graph:    depgraph.New(),
		owners:   make(map[domain.Key]int),
		created:  make(map[domain.Key]domain.Binding),
		scopes:   make(map[domain.Key]domain.Scope),
		limits:   make(map[domain.Key]int),
		pos:      make(map[domain.Key]int),
		failures: make(map[domain.Key]failure),
		explored: make(map[domain.Key]bool),
		onStack:  make(map[domain.Key]int),
	}
}

func (b *build) run(demands []domain.Dependency) {
	for _, d := range demands {
		b.explore(d)
		if b.err != nil {
			return
		}
	}
	b.propagateFailures()
	b.reportFailures()
	b.position()
	b.install(demands)
}

// explore walks the dependencies reachable from one demand depth-first using an
// explicit stack. Keys on the stack are in progress; reaching one again closes a cycle.
func (b *build) explore(demand domain.Dependency) {
	b.enter(demand)
	for len(b.stack) > 0 && b.err == nil {
		top := &b.stack[len(b.stack)-1]
		if top.next == len(top.deps) {
			b.leave()
			continue
		}
		dep := top.deps[top.next]
		top.next++
		b.enter(dep)
	}
}

func (b *build) enter(dep domain.Dependency) {
	b.graph.Add(dep)
	key := dep.Target
	if b.explored[key] {
		return
	}
	if idx, ok := b.onStack[key]; ok {
		b.closeCycle(idx, dep)
		return
	}

	owner, visible, err := b.visibleOwner(key)
	if err != nil {
		b.err = err
		return
	}
	if visible {
		b.owners[key] = owner
		b.explored[key] = true
		return
	}

	limit := b.placementLimit(key)
	if limit < 0 {
		b.fail(key, failure{
			kind:   domain.DiagVisibility,
			format: "%s is bound in a private module below %s and cannot be created there",
			args:   []any{key, b.origin.Path()},
		})
		b.explored[key] = true
		return
	}

	binding, scope, err := b.r.creator.Create(key)
	if err != nil {
		b.fail(key, b.creationFailure(key, err))
		b.explored[key] = true
		return
	}

	b.created[key] = binding
	b.scopes[key] = scope
	b.limits[key] = limit
	b.order = append(b.order, key)

	var deps []domain.Dependency
	for _, d := range binding.Dependencies() {
		if !d.IsRoot() {
			deps = append(deps, d)
		}
	}
	b.onStack[key] = len(b.stack)
	b.stack = append(b.stack, frame{key: key, via: dep, deps: deps})
}

func (b *build) leave() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	delete(b.onStack, top.key)
	b.explored[top.key] = true
}

// closeCycle handles an edge back to the key at stack index idx. Only cycles made of
// required eager edges fail; a cycle through a provider or an optional edge is legal.
func (b *build) closeCycle(idx int, closing domain.Dependency) {
	if !closesCycle(closing) {
		return
	}
	for _, f := range b.stack[idx+1:] {
		if !closesCycle(f.via) {
			return
		}
	}

	keys := make([]domain.Key, 0, len(b.stack)-idx+1)
	for _, f := range b.stack[idx:] {
		keys = append(keys, f.key)
	}
	keys = append(keys, closing.Target)
	chain := depgraph.FormatKeys(keys)

	for _, k := range keys[:len(keys)-1] {
		b.fail(k, failure{
			kind:   domain.DiagCircular,
			id:     "cycle " + chain,
			format: "cycle detected: %s",
			args:   []any{chain},
		})
	}
}

func closesCycle(dep domain.Dependency) bool {
	return !dep.Lazy && !dep.Optional
}

// visibleOwner returns the chain index of the first node that binds key, skipping
// forwarding entries. A forwarding entry must point at the next node of the chain.
func (b *build) visibleOwner(key domain.Key) (int, bool, error) {
	forwarded := false
	for i, n := range b.chain {
		existing, ok := n.Binding(key)
		if !ok {
			if forwarded {
				return 0, false, b.invariant("forwarding entry for %s in %s leads to a node without it", key, b.chain[i-1])
			}
			continue
		}
		switch fwd := existing.(type) {
		case *domain.ParentForwardBinding:
			if i+1 >= len(b.chain) || fwd.Parent != b.chain[i+1] {
				return 0, false, b.invariant("%s in %s forwards to a node that is not its parent", key, n)
			}
			forwarded = true
			continue
		case *domain.ChildExposeBinding:
			if i > 0 && fwd.Child == b.chain[i-1] {
				continue
			}
			if fwd.Child.Parent() != n {
				return 0, false, b.invariant("%s in %s is exposed from a node that is not its child", key, n)
			}
		}
		return i, true, nil
	}
	return 0, false, nil
}

// placementLimit returns the highest chain index key may be placed at. A chain node
// is unusable when one of its strict descendants off the chain already has an entry
// for key. A negative result means not even the origin may create key.
func (b *build) placementLimit(key domain.Key) int {
	onChain := make(map[*domain.Node]bool, len(b.chain))
	for _, n := range b.chain {
		onChain[n] = true
	}
	limit := len(b.chain) - 1
	for n := range b.chain[len(b.chain)-1].Walk() {
		if onChain[n] || !n.HasBinding(key) {
			continue
		}
		for i, c := range b.chain {
			if c.IsAncestorOf(n) {
				limit = min(limit, i-1)
				break
			}
		}
	}
	return limit
}

// hiddenOwner returns a node off the chain that binds key explicitly.
func (b *build) hiddenOwner(key domain.Key) (*domain.Node, bool) {
	onChain := make(map[*domain.Node]bool, len(b.chain))
	for _, n := range b.chain {
		onChain[n] = true
	}
	for n := range b.chain[len(b.chain)-1].Walk() {
		if onChain[n] {
			continue
		}
		if existing, ok := n.Binding(key); ok && !domain.IsForwarding(existing) {
			return n, true
		}
	}
	return nil, false
}

func (b *build) creationFailure(key domain.Key, err error) failure {
	if owner, hidden := b.hiddenOwner(key); hidden {
		return failure{
			kind:   domain.DiagVisibility,
			format: "%s is bound in %s, which is not visible from %s, and no implicit binding is available",
			args:   []any{key, owner.Path(), b.origin.Path()},
		}
	}
	var creationErr *domain.CreationError
	if errors.As(err, &creationErr) {
		return failure{kind: creationErr.Kind, format: "%s", args: []any{creationErr.Reason}}
	}
	return failure{kind: domain.DiagUnsatisfiable, format: "no binding for %s: %s", args: []any{key, err.Error()}}
}

func (b *build) fail(key domain.Key, f failure) {
	if _, failed := b.failures[key]; failed {
		return
	}
	if f.id == "" && f.cause == nil {
		f.id = f.kind.String() + " " + key.String()
	}
	b.failures[key] = f
	b.failOrder = append(b.failOrder, key)
}

func (b *build) invariant(format string, key domain.Key, node *domain.Node) error {
	err := zerr.With(zerr.Wrap(domain.ErrInternalInvariant, "inconsistent tree"), "key", key.String())
	err = zerr.With(err, "node", node.Path())
	err = zerr.With(err, "detail", format)
	b.r.sink.Errorf(domain.DiagInternal, format, key, node.Path())
	return err
}

// Package reachability decides which bindings of a resolved tree must be emitted.
package reachability

import (
	"sync"

	"go.trai.ch/weave/internal/core/domain"
)

type slot struct {
	node *domain.Node
	key  domain.Key
}

type memberSlot struct {
	node     *domain.Node
	typeName string
}

// Analyzer marks the bindings that some root of the injector needs: its accessor
// methods, its member injection methods, eager singletons and static injections.
// The sweep runs once, on first use, and must only start after resolution.
type Analyzer struct {
	tree *domain.Tree

	once    sync.Once
	reached map[slot]bool
	members map[memberSlot]bool
	queue   []slot
}

// New creates an Analyzer for a resolved tree.
func New(tree *domain.Tree) *Analyzer {
	return &Analyzer{tree: tree}
}

// IsReachable reports whether the binding for key at node is needed.
func (a *Analyzer) IsReachable(node *domain.Node, key domain.Key) bool {
	a.once.Do(a.sweep)
	return a.reached[slot{node: node, key: key}]
}

// IsReachableMemberInject reports whether the member injector for typeName at node is needed.
func (a *Analyzer) IsReachableMemberInject(node *domain.Node, typeName string) bool {
	a.once.Do(a.sweep)
	return a.members[memberSlot{node: node, typeName: typeName}]
}

// Count returns the number of reachable bindings.
func (a *Analyzer) Count() int {
	a.once.Do(a.sweep)
	return len(a.reached)
}

func (a *Analyzer) sweep() {
	a.reached = make(map[slot]bool)
	a.members = make(map[memberSlot]bool)

	root := a.tree.Root
	if injector := root.Injector(); injector != nil {
		for _, m := range injector.Methods {
			if m.IsMemberInjection() {
				a.markMembers(root, *m.MemberInject)
				continue
			}
			a.push(root, m.Key)
		}
	}

	for n := range a.tree.Nodes() {
		for key := range n.Bindings() {
			if n.Scope(key) == domain.EagerSingleton {
				a.push(n, key)
			}
		}
		for _, s := range n.StaticInjections() {
			for _, dep := range s.Dependencies(domain.Ginjector) {
				a.push(n, dep.Target)
			}
		}
	}

	for len(a.queue) > 0 {
		current := a.queue[len(a.queue)-1]
		a.queue = a.queue[:len(a.queue)-1]
		a.follow(current)
	}
}

// push marks the binding for key at node and queues it. Keys without an entry at
// the node are optional dependencies that failed to resolve.
func (a *Analyzer) push(node *domain.Node, key domain.Key) {
	s := slot{node: node, key: key}
	if a.reached[s] || !node.HasBinding(key) {
		return
	}
	a.reached[s] = true
	a.queue = append(a.queue, s)
}

func (a *Analyzer) markMembers(node *domain.Node, m domain.MemberInjection) {
	ms := memberSlot{node: node, typeName: m.Type}
	if a.members[ms] {
		return
	}
	a.members[ms] = true
	for _, dep := range m.Dependencies(domain.Ginjector) {
		a.push(node, dep.Target)
	}
}

func (a *Analyzer) follow(s slot) {
	b, _ := s.node.Binding(s.key)
	switch fwd := b.(type) {
	case *domain.ParentForwardBinding:
		a.push(fwd.Parent, s.key)
		return
	case *domain.ChildExposeBinding:
		a.push(fwd.Child, s.key)
		return
	}
	for _, dep := range b.Dependencies() {
		if dep.IsRoot() {
			continue
		}
		a.push(s.node, dep.Target)
	}
	for _, m := range b.MemberInjectRequests() {
		a.markMembers(s.node, m)
	}
}

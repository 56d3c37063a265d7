// Package resolver places every binding an injector tree needs at a node of that tree.
//
// Each node is resolved in pre-order with a build: the build explores the keys the
// node demands, synthesizes implicit bindings for keys that are not visible yet,
// fails keys that cannot be satisfied, and finally installs the new bindings as close
// to the root as their dependencies allow, recording forwarding entries on the way.
package resolver

import (
	"fmt"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
)

// BindingCreator synthesizes bindings for keys without an explicit declaration.
type BindingCreator interface {
	Create(key domain.Key) (domain.Binding, domain.Scope, error)
}

// Resolver resolves the bindings of one tree. It is not safe for concurrent use.
type Resolver struct {
	creator  BindingCreator
	sink     ports.ErrorSink
	logger   ports.Logger
	reported map[string]domain.Severity
}

// New creates a Resolver that reports problems to sink.
func New(creator BindingCreator, sink ports.ErrorSink, logger ports.Logger) *Resolver {
	return &Resolver{
		creator:  creator,
		sink:     sink,
		logger:   logger,
		reported: make(map[string]domain.Severity),
	}
}

// ResolveTree resolves every node of the tree, root first. User errors are reported to
// the sink; the returned error is only set for internal invariant violations, which
// stop resolution immediately.
func (r *Resolver) ResolveTree(tree *domain.Tree) error {
	if err := r.checkHierarchy(tree); err != nil {
		return err
	}
	for node := range tree.Nodes() {
		if err := r.ResolveNode(node); err != nil {
			return err
		}
		if r.sink.HasErrors() {
			r.logger.Debug(fmt.Sprintf("errors recorded after resolving %s", node.Path()))
		}
	}
	return r.checkCycles(tree)
}

// ResolveNode resolves everything node itself demands: the dependencies of its
// explicit bindings, its member and static injections and, at the root, the
// injector interface methods.
func (r *Resolver) ResolveNode(node *domain.Node) error {
	b := newBuild(r, node)
	b.run(demandsOf(node))
	return b.err
}

// ResolveAndInherit resolves key on behalf of origin and returns the node that owns
// its binding. When the key cannot be resolved the failure is reported and the
// returned node is nil. A non-nil error means the tree is inconsistent.
func (r *Resolver) ResolveAndInherit(origin *domain.Node, key domain.Key, optional bool, context string) (*domain.Node, error) {
	b := newBuild(r, origin)
	b.run([]domain.Dependency{domain.RootDependency(key, optional, context)})
	if b.err != nil {
		return nil, b.err
	}
	idx, ok := b.ownerIndex(key)
	if !ok {
		return nil, nil
	}
	return b.chain[idx], nil
}

func demandsOf(node *domain.Node) []domain.Dependency {
	var demands []domain.Dependency

	if injector := node.Injector(); injector != nil {
		for _, m := range injector.Methods {
			if m.IsMemberInjection() {
				node.AddMemberInjection(*m.MemberInject)
				continue
			}
			demands = append(demands, domain.RootDependency(m.Key, false, "method "+injector.Type+"."+m.Name))
		}
	}

	for _, b := range collectBindings(node) {
		if domain.IsForwarding(b) {
			continue
		}
		demands = append(demands, b.Dependencies()...)
	}

	for _, m := range node.MemberInjections() {
		demands = append(demands, m.Dependencies(domain.Ginjector)...)
	}
	for _, m := range node.StaticInjections() {
		demands = append(demands, m.Dependencies(domain.Ginjector)...)
	}
	return demands
}

// collectBindings snapshots the node's bindings; resolution adds entries while it runs.
func collectBindings(node *domain.Node) []domain.Binding {
	out := make([]domain.Binding, 0, node.Len())
	for _, b := range node.Bindings() {
		out = append(out, b)
	}
	return out
}

// report records a failure once per tree. A failure first seen as a warning is
// reported again when a later build needs it through a required edge.
func (r *Resolver) report(warning bool, kind domain.DiagnosticKind, id, format string, args ...any) {
	severity := domain.SeverityError
	if warning {
		severity = domain.SeverityWarning
	}
	if prev, done := r.reported[id]; done && (prev == domain.SeverityError || warning) {
		return
	}
	r.reported[id] = severity
	if warning {
		r.sink.Warnf(kind, format, args...)
		r.logger.Debug(fmt.Sprintf(format, args...))
		return
	}
	r.sink.Errorf(kind, format, args...)
}

package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// InjectorMethod is a method declared on an injector interface.
// Accessors have a Key; member injection methods name the type whose members they inject.
type InjectorMethod struct {
	Name         string
	Key          Key
	MemberInject *MemberInjection
}

// IsMemberInjection reports whether the method injects the members of its argument.
func (m InjectorMethod) IsMemberInjection() bool {
	return m.MemberInject != nil
}

// InjectorInterface is the interface a generated injector implements.
type InjectorInterface struct {
	Type    string
	Methods []InjectorMethod
}

// Node is one level of the injector hierarchy. It owns the bindings placed at its
// level; the parent pointer is a back-reference used for traversal only.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	private  bool

	bindings map[Key]Binding
	order    []Key
	scopes   map[Key]Scope

	conflicts []Conflict

	memberInjects []MemberInjection
	memberTypes   map[string]bool
	staticInjects []MemberInjection
	staticTypes   map[string]bool
	injector      *InjectorInterface
}

func newNode(name string, parent *Node, private bool) *Node {
	return &Node{
		name:        name,
		parent:      parent,
		private:     private,
		bindings:    make(map[Key]Binding),
		scopes:      make(map[Key]Scope),
		memberTypes: make(map[string]bool),
		staticTypes: make(map[string]bool),
	}
}

// Name returns the node's local name.
func (n *Node) Name() string { return n.name }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in creation order.
func (n *Node) Children() []*Node { return n.children }

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsPrivate reports whether the node hides its bindings from its parent.
func (n *Node) IsPrivate() bool { return n.private }

// Injector returns the injector interface bound at the root, if any.
func (n *Node) Injector() *InjectorInterface { return n.injector }

// AddChild creates a child node.
func (n *Node) AddChild(name string, private bool) *Node {
	child := newNode(name, n, private)
	n.children = append(n.children, child)
	return child
}

// Path returns the slash-separated names from the root to n.
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// Chain returns n followed by each of its ancestors up to the root.
func (n *Node) Chain() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for cur := other.parent; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk yields n and all of its descendants in pre-order.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		stack := []*Node{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			for i := len(cur.children) - 1; i >= 0; i-- {
				stack = append(stack, cur.children[i])
			}
		}
	}
}

// Binding returns the local binding for key.
func (n *Node) Binding(key Key) (Binding, bool) {
	b, ok := n.bindings[key]
	return b, ok
}

// HasBinding reports whether n has a local entry for key.
func (n *Node) HasBinding(key Key) bool {
	_, ok := n.bindings[key]
	return ok
}

// Bindings yields local bindings in insertion order.
func (n *Node) Bindings() iter.Seq2[Key, Binding] {
	return func(yield func(Key, Binding) bool) {
		for _, k := range n.order {
			if !yield(k, n.bindings[k]) {
				return
			}
		}
	}
}

// Len returns the number of local bindings.
func (n *Node) Len() int { return len(n.order) }

// AddBinding records b at n. Adding a binding from the same declaration twice is a
// no-op; a different binding for a key that already has one is a double binding.
func (n *Node) AddBinding(b Binding) error {
	key := b.Key()
	if existing, ok := n.bindings[key]; ok {
		if existing == b || (existing.Kind() == b.Kind() && existing.Context() == b.Context()) {
			return nil
		}
		err := zerr.With(zerr.Wrap(ErrDoubleBinding, "cannot add binding"), "key", key.String())
		err = zerr.With(err, "node", n.Path())
		err = zerr.With(err, "existing", existing.Context().String())
		return zerr.With(err, "duplicate", b.Context().String())
	}
	n.bindings[key] = b
	n.order = append(n.order, key)
	return nil
}

// Conflict is a declaration rejected because its key already had a different
// binding in the same node.
type Conflict struct {
	Existing  Binding
	Duplicate Binding
}

// RecordConflict keeps a rejected duplicate so that it can be reported together
// with every other problem of the tree. It does nothing when key is not bound at n.
func (n *Node) RecordConflict(duplicate Binding) {
	existing, ok := n.bindings[duplicate.Key()]
	if !ok {
		return
	}
	n.conflicts = append(n.conflicts, Conflict{Existing: existing, Duplicate: duplicate})
}

// Conflicts returns the rejected duplicates in the order they were recorded.
func (n *Node) Conflicts() []Conflict { return n.conflicts }

// SetScope declares the scope of key at n.
func (n *Node) SetScope(key Key, scope Scope) {
	if scope == NoScope {
		return
	}
	n.scopes[key] = scope
}

// Scope returns the declared scope of key at n.
func (n *Node) Scope(key Key) Scope {
	return n.scopes[key]
}

// AddMemberInjection requests member injection for a type at n.
// Requests for a type that is already registered are ignored.
func (n *Node) AddMemberInjection(m MemberInjection) {
	if n.memberTypes[m.Type] {
		return
	}
	n.memberTypes[m.Type] = true
	n.memberInjects = append(n.memberInjects, m)
}

// MemberInjections returns the member injection requests in registration order.
func (n *Node) MemberInjections() []MemberInjection { return n.memberInjects }

// HasMemberInjection reports whether a member injection for typeName is registered at n.
func (n *Node) HasMemberInjection(typeName string) bool { return n.memberTypes[typeName] }

// AddStaticInjection requests static injection for a type at n.
func (n *Node) AddStaticInjection(m MemberInjection) {
	if n.staticTypes[m.Type] {
		return
	}
	n.staticTypes[m.Type] = true
	n.staticInjects = append(n.staticInjects, m)
}

// StaticInjections returns the static injection requests in registration order.
func (n *Node) StaticInjections() []MemberInjection { return n.staticInjects }

// Tree is the injector hierarchy generated for one injector interface.
type Tree struct {
	Root *Node
}

// NewTree creates a tree whose root implements the given injector interface.
// The root binds the injector interface to itself.
func NewTree(injector InjectorInterface) (*Tree, error) {
	root := newNode(SimpleName(injector.Type), nil, false)
	root.injector = &injector
	if err := root.AddBinding(NewInjectorSelfBinding(NewKey(injector.Type))); err != nil {
		return nil, err
	}
	return &Tree{Root: root}, nil
}

// Name returns the injector interface type.
func (t *Tree) Name() string {
	if t.Root.injector == nil {
		return t.Root.name
	}
	return t.Root.injector.Type
}

// Nodes yields every node in pre-order.
func (t *Tree) Nodes() iter.Seq[*Node] {
	return t.Root.Walk()
}

// Find returns the node with the given path.
func (t *Tree) Find(path string) (*Node, bool) {
	for n := range t.Nodes() {
		if n.Path() == path {
			return n, true
		}
	}
	return nil, false
}

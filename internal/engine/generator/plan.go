package generator

import (
	"go.trai.ch/weave/internal/core/domain"
)

// Reachability tells which parts of a resolved tree are needed.
type Reachability interface {
	IsReachable(node *domain.Node, key domain.Key) bool
	IsReachableMemberInject(node *domain.Node, typeName string) bool
}

// BuildPlan collects the reachable bindings and member injectors of every node in
// tree order. Static injections are always emitted since they are roots themselves.
func BuildPlan(tree *domain.Tree, reach Reachability, names domain.MethodNamer) *domain.EmissionPlan {
	plan := &domain.EmissionPlan{Injector: tree.Name()}

	for n := range tree.Nodes() {
		np := domain.NodePlan{Path: n.Path()}
		if parent := n.Parent(); parent != nil {
			np.Parent = parent.Path()
		}

		for key, b := range n.Bindings() {
			if !reach.IsReachable(n, key) {
				continue
			}
			np.Getters = append(np.Getters, getterPlan(n, key, b, names))
		}

		for _, m := range n.MemberInjections() {
			if !reach.IsReachableMemberInject(n, m.Type) {
				continue
			}
			np.MemberInjectors = append(np.MemberInjectors, injectorPlan(m, names))
		}
		for _, m := range n.StaticInjections() {
			np.StaticInjections = append(np.StaticInjections, injectorPlan(m, names))
		}

		plan.Nodes = append(plan.Nodes, np)
	}
	return plan
}

func getterPlan(n *domain.Node, key domain.Key, b domain.Binding, names domain.MethodNamer) domain.GetterPlan {
	gp := domain.GetterPlan{
		Key:        key.String(),
		Kind:       b.Kind().String(),
		Package:    b.GetterPackage(),
		Method:     names.Getter(key),
		Statements: b.CreationStatements(names),
	}
	if scope := n.Scope(key); scope != domain.NoScope {
		gp.Scope = scope.String()
	}
	switch fwd := b.(type) {
	case *domain.ParentForwardBinding:
		gp.ForwardTo = fwd.Parent.Path()
	case *domain.ChildExposeBinding:
		gp.ForwardTo = fwd.Child.Path()
	}
	return gp
}

func injectorPlan(m domain.MemberInjection, names domain.MethodNamer) domain.InjectorPlan {
	ip := domain.InjectorPlan{Type: m.Type, Method: names.MemberInjector(m.Type)}
	for _, p := range m.Points {
		ip.Points = append(ip.Points, string(p.Kind)+" "+p.Name)
	}
	return ip
}

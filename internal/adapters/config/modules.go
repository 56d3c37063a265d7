package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// treeBuilder configures the modules of one injector into a tree.
type treeBuilder struct {
	file    string
	types   *domain.TypeRegistry
	modules map[string]ModuleDTO
	logger  ports.Logger

	// configured holds, per node, the identities of modules already configured there.
	configured map[*domain.Node]map[string]bool
	installing []string
}

func (b *treeBuilder) build(name string, dto InjectorDTO) (*domain.Tree, error) {
	iface := domain.InjectorInterface{Type: name}
	for _, m := range dto.Methods {
		method, err := b.method(m)
		if err != nil {
			return nil, err
		}
		iface.Methods = append(iface.Methods, method)
	}

	tree, err := domain.NewTree(iface)
	if err != nil {
		return nil, err
	}
	for _, inst := range dto.Modules {
		if err := b.install(tree.Root, inst); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (b *treeBuilder) method(m MethodDTO) (domain.InjectorMethod, error) {
	switch {
	case m.Name == "":
		return domain.InjectorMethod{}, zerr.Wrap(domain.ErrInvalidDeclaration, "injector method has no name")
	case m.Key != nil && m.InjectMembers != "":
		err := zerr.Wrap(domain.ErrInvalidDeclaration, "injector method is both an accessor and a member injector")
		return domain.InjectorMethod{}, zerr.With(err, "method", m.Name)
	case m.Key != nil:
		return domain.InjectorMethod{Name: m.Name, Key: m.Key.Key()}, nil
	case m.InjectMembers != "":
		inject, err := b.memberInjection(m.InjectMembers, false)
		if err != nil {
			return domain.InjectorMethod{}, zerr.With(err, "method", m.Name)
		}
		return domain.InjectorMethod{Name: m.Name, MemberInject: &inject}, nil
	default:
		err := zerr.Wrap(domain.ErrInvalidDeclaration, "injector method needs a key or injectMembers")
		return domain.InjectorMethod{}, zerr.With(err, "method", m.Name)
	}
}

// install configures a module into n. A module that compares equal to one already
// configured in n (same name, same arguments) is skipped.
func (b *treeBuilder) install(n *domain.Node, inst InstallDTO) error {
	dto, ok := b.modules[inst.Module]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownModule, "cannot install module"), "module", inst.Module)
	}
	if slices.Contains(b.installing, inst.Module) {
		err := zerr.Wrap(domain.ErrInvalidDeclaration, "module installs itself")
		return zerr.With(err, "cycle", strings.Join(append(b.installing, inst.Module), " -> "))
	}

	id := moduleIdentity(inst)
	if b.configured[n] == nil {
		b.configured[n] = make(map[string]bool)
	}
	if b.configured[n][id] {
		b.logger.Debug(fmt.Sprintf("module %s is already configured in %s", id, n.Path()))
		return nil
	}
	b.configured[n][id] = true

	b.installing = append(b.installing, inst.Module)
	defer func() { b.installing = b.installing[:len(b.installing)-1] }()

	target := n
	if dto.Private {
		target = n.AddChild(childName(n, inst.Module), true)
	} else if len(dto.Expose) > 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "only private modules can expose keys"), "module", inst.Module)
	}

	for i := range dto.Bindings {
		if err := b.bind(target, inst, id, &dto.Bindings[i]); err != nil {
			return zerr.With(err, "module", id)
		}
	}
	for _, sub := range dto.Install {
		if err := b.install(target, sub); err != nil {
			return err
		}
	}
	for _, t := range dto.RequestInjection {
		m, err := b.memberInjection(t, false)
		if err != nil {
			return zerr.With(err, "module", id)
		}
		target.AddMemberInjection(m)
	}
	for _, t := range dto.RequestStaticInjection {
		m, err := b.memberInjection(t, true)
		if err != nil {
			return zerr.With(err, "module", id)
		}
		target.AddStaticInjection(m)
	}
	for _, exposed := range dto.Expose {
		key := exposed.Key()
		b.addBinding(n, domain.NewChildExposeBinding(key, target, b.types.GetterPackage(key)))
	}
	return nil
}

// addBinding records binding at n. A second binding for the same key is kept as a
// conflict for the resolver to report; loading continues.
func (b *treeBuilder) addBinding(n *domain.Node, binding domain.Binding) bool {
	if err := n.AddBinding(binding); err != nil {
		n.RecordConflict(binding)
		b.logger.Debug(err.Error())
		return false
	}
	return true
}

func (b *treeBuilder) memberInjection(typeName string, static bool) (domain.MemberInjection, error) {
	info, ok := b.types.Lookup(typeName)
	if !ok {
		return domain.MemberInjection{}, zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "member injection of an undeclared type"), "type", typeName)
	}
	points := info.InstanceMembers()
	if static {
		points = info.StaticMembers()
	}
	return domain.MemberInjection{Type: typeName, Points: points}, nil
}

func (b *treeBuilder) bind(n *domain.Node, inst InstallDTO, id string, node *yaml.Node) error {
	var dto BindingDTO
	if err := node.Decode(&dto); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse binding"), "line", node.Line)
	}
	if dto.Bind.Type == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "binding has no key"), "line", node.Line)
	}

	key := dto.Bind.Key()
	ctx := domain.Context(fmt.Sprintf("%s:%d in module %s", b.file, node.Line, id))

	binding, err := b.binding(key, ctx, inst, dto)
	if err != nil {
		err = zerr.With(err, "key", key.String())
		return zerr.With(err, "line", node.Line)
	}
	if !b.addBinding(n, binding) {
		return nil
	}

	scope, err := domain.ParseScope(dto.Scope)
	if err != nil {
		return zerr.With(err, "line", node.Line)
	}
	n.SetScope(key, scope)
	return nil
}

func (b *treeBuilder) binding(key domain.Key, ctx domain.Context, inst InstallDTO, dto BindingDTO) (domain.Binding, error) {
	targets := 0
	for _, set := range []bool{
		dto.To != nil, dto.ToProvider != nil, dto.ToConstructor != nil,
		dto.Provides != nil, dto.Constant != nil, len(dto.Factory) > 0,
	} {
		if set {
			targets++
		}
	}
	if targets != 1 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "binding needs exactly one target"), "targets", targets)
	}

	pkg := b.types.GetterPackage(key)
	switch {
	case dto.To != nil:
		return domain.NewLinkedBinding(key, dto.To.Key(), ctx, pkg), nil

	case dto.ToProvider != nil:
		if providerPkg := b.types.TypePackage(dto.ToProvider.Type); providerPkg != "" {
			pkg = providerPkg
		}
		return domain.NewProviderKeyBinding(key, dto.ToProvider.Key(), ctx, pkg), nil

	case dto.ToConstructor != nil:
		typeName := dto.ToConstructor.Type
		if typeName == "" {
			typeName = key.TypeName()
		}
		info, ok := b.types.Lookup(domain.RawType(typeName))
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "constructor of an undeclared type"), "type", typeName)
		}
		if typePkg := b.types.TypePackage(info.Name); typePkg != "" {
			pkg = typePkg
		}
		return domain.NewConstructorBinding(key, typeName, params(dto.ToConstructor.Params), info.InstanceMembers(), ctx, pkg), nil

	case dto.Provides != nil:
		if dto.Provides.Method == "" {
			return nil, zerr.Wrap(domain.ErrInvalidDeclaration, "provider method has no name")
		}
		return domain.NewProviderMethodBinding(key, inst.Module, dto.Provides.Method, params(dto.Provides.Params), ctx, pkg), nil

	case dto.Constant != nil:
		literal, err := expandArgs(*dto.Constant, inst.Args)
		if err != nil {
			return nil, err
		}
		return domain.NewConstantBinding(key, literal, ctx), nil

	default:
		products := make([]domain.FactoryProduct, 0, len(dto.Factory))
		for _, p := range dto.Factory {
			products = append(products, domain.FactoryProduct{
				Method:         p.Method,
				Returns:        p.Returns.Key(),
				Implementation: p.Implementation,
				Params:         params(p.Params),
			})
		}
		return domain.NewFactoryBinding(key, products, ctx, pkg), nil
	}
}

// expandArgs replaces ${name} with the module argument of that name.
func expandArgs(s string, args map[string]string) (string, error) {
	var missing []string
	out := os.Expand(s, func(name string) string {
		v, ok := args[name]
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "constant refers to a missing module argument"), "args", missing)
	}
	return out, nil
}

// moduleIdentity renders a module with its arguments in canonical order, so two
// installs compare equal exactly when name and arguments match.
func moduleIdentity(inst InstallDTO) string {
	if len(inst.Args) == 0 {
		return inst.Module
	}
	names := make([]string, 0, len(inst.Args))
	for name := range inst.Args {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + strconv.Quote(inst.Args[name])
	}
	return inst.Module + "(" + strings.Join(parts, ", ") + ")"
}

func childName(parent *domain.Node, module string) string {
	name := module
	for i := 2; slices.ContainsFunc(parent.Children(), func(c *domain.Node) bool { return c.Name() == name }); i++ {
		name = module + "#" + strconv.Itoa(i)
	}
	return name
}

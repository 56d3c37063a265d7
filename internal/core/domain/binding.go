package domain

import (
	"strconv"
	"strings"
)

// BindingKind enumerates the binding variants.
type BindingKind int

// Binding kinds.
const (
	KindLinked BindingKind = iota
	KindProviderKey
	KindConstant
	KindConstructor
	KindProviderMethod
	KindFactory
	KindImplicitProvider
	KindAsyncProvider
	KindPlatformCreate
	KindRemoteServiceProxy
	KindParentForward
	KindChildExpose
	KindInjectorSelf
)

var bindingKindNames = map[BindingKind]string{
	KindLinked:             "linked",
	KindProviderKey:        "provider-key",
	KindConstant:           "constant",
	KindConstructor:        "constructor",
	KindProviderMethod:     "provider-method",
	KindFactory:            "factory",
	KindImplicitProvider:   "implicit-provider",
	KindAsyncProvider:      "async-provider",
	KindPlatformCreate:     "platform-create",
	KindRemoteServiceProxy: "remote-service-proxy",
	KindParentForward:      "parent-forward",
	KindChildExpose:        "child-expose",
	KindInjectorSelf:       "injector-self",
}

func (k BindingKind) String() string {
	if name, ok := bindingKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Context is the human-readable provenance of a binding declaration.
type Context string

func (c Context) String() string { return string(c) }

// ImplicitContext is the provenance recorded for synthesized bindings.
func ImplicitContext(k Key) Context {
	return Context("implicit binding for " + k.String())
}

// MemberInjection is a request to inject the members of a type after construction.
type MemberInjection struct {
	Type   string
	Points []InjectionPoint
}

// Dependencies returns the edges from source to every member key.
func (m MemberInjection) Dependencies(source Key) []Dependency {
	var deps []Dependency
	for _, p := range m.Points {
		deps = append(deps, p.Dependencies(source)...)
	}
	return deps
}

// Binding describes how to produce the value for a key.
// The variant set is closed; every implementation lives in this package.
// Bindings are immutable once constructed and the slices they return must not be modified.
type Binding interface {
	Key() Key
	Kind() BindingKind
	Context() Context
	// Dependencies always starts with the edge from the Ginjector to Key.
	Dependencies() []Dependency
	Requirements() Requirements
	GetterPackage() string
	MemberInjectRequests() []MemberInjection
	CreationStatements(names MethodNamer) []string

	sealed()
}

// IsForwarding reports whether b links to the same key in another node.
func IsForwarding(b Binding) bool {
	k := b.Kind()
	return k == KindParentForward || k == KindChildExpose
}

type binding struct {
	key     Key
	context Context
	pkg     string
	deps    []Dependency
	reqs    Requirements
}

func newBinding(key Key, ctx Context, pkg string, deps ...Dependency) binding {
	all := make([]Dependency, 0, len(deps)+1)
	all = append(all, RootDependency(key, false, ctx.String()))
	all = append(all, deps...)
	return binding{
		key:     key,
		context: ctx,
		pkg:     pkg,
		deps:    all,
		reqs:    requirementsOf(all),
	}
}

func (b *binding) Key() Key                                { return b.key }
func (b *binding) Context() Context                        { return b.context }
func (b *binding) Dependencies() []Dependency              { return b.deps }
func (b *binding) Requirements() Requirements              { return b.reqs }
func (b *binding) GetterPackage() string                   { return b.pkg }
func (b *binding) MemberInjectRequests() []MemberInjection { return nil }
func (b *binding) sealed()                                 {}

// LinkedBinding forwards to the binding of another key.
type LinkedBinding struct {
	binding
	Target Key
}

// NewLinkedBinding binds key to target.
func NewLinkedBinding(key, target Key, ctx Context, pkg string) *LinkedBinding {
	b := &LinkedBinding{Target: target}
	b.binding = newBinding(key, ctx, pkg, Dependency{Source: key, Target: target, Lazy: isProviderKey(target), Context: ctx.String()})
	return b
}

func (b *LinkedBinding) Kind() BindingKind { return KindLinked }

func (b *LinkedBinding) CreationStatements(names MethodNamer) []string {
	return []string{"return " + names.Getter(b.Target) + "();"}
}

// ProviderKeyBinding obtains the value from a user-supplied provider bound under its own key.
type ProviderKeyBinding struct {
	binding
	Provider Key
}

// NewProviderKeyBinding binds key to the provider bound at provider.
func NewProviderKeyBinding(key, provider Key, ctx Context, pkg string) *ProviderKeyBinding {
	b := &ProviderKeyBinding{Provider: provider}
	b.binding = newBinding(key, ctx, pkg, Dependency{Source: key, Target: provider, Context: ctx.String()})
	return b
}

func (b *ProviderKeyBinding) Kind() BindingKind { return KindProviderKey }

func (b *ProviderKeyBinding) CreationStatements(names MethodNamer) []string {
	return []string{"return " + names.Getter(b.Provider) + "().get();"}
}

// ConstantBinding wraps a literal value.
type ConstantBinding struct {
	binding
	Literal string
}

// NewConstantBinding binds key to a literal.
func NewConstantBinding(key Key, literal string, ctx Context) *ConstantBinding {
	b := &ConstantBinding{Literal: literal}
	b.binding = newBinding(key, ctx, "")
	return b
}

func (b *ConstantBinding) Kind() BindingKind { return KindConstant }

func (b *ConstantBinding) CreationStatements(_ MethodNamer) []string {
	var expr string
	switch raw := b.key.RawType(); {
	case raw == "java.lang.String":
		expr = strconv.Quote(b.Literal)
	case raw == "java.lang.Class":
		expr = b.Literal + ".class"
	case raw == "char" || raw == "java.lang.Character":
		expr = "'" + b.Literal + "'"
	case strings.Contains(raw, ".") && !strings.HasPrefix(raw, "java.lang."):
		expr = raw + "." + b.Literal
	default:
		expr = b.Literal
	}
	return []string{"return " + expr + ";"}
}

// ConstructorBinding invokes an injectable constructor and injects the instance's members.
type ConstructorBinding struct {
	binding
	Type    string
	Params  []Param
	Members []InjectionPoint
}

// NewConstructorBinding binds key to a constructor call on typeName.
func NewConstructorBinding(
	key Key,
	typeName string,
	params []Param,
	members []InjectionPoint,
	ctx Context,
	pkg string,
) *ConstructorBinding {
	b := &ConstructorBinding{Type: typeName, Params: params, Members: members}
	deps := make([]Dependency, 0, len(params))
	for _, p := range params {
		deps = append(deps, Dependency{
			Source:   key,
			Target:   p.Key,
			Optional: p.Optional,
			Lazy:     isProviderKey(p.Key),
			Context:  "parameter of " + typeName + " constructor",
		})
	}
	deps = append(deps, MemberInjection{Type: typeName, Points: members}.Dependencies(key)...)
	b.binding = newBinding(key, ctx, pkg, deps...)
	return b
}

func (b *ConstructorBinding) Kind() BindingKind { return KindConstructor }

func (b *ConstructorBinding) MemberInjectRequests() []MemberInjection {
	if len(b.Members) == 0 {
		return nil
	}
	return []MemberInjection{{Type: b.Type, Points: b.Members}}
}

func (b *ConstructorBinding) CreationStatements(names MethodNamer) []string {
	return instantiate(b.Type, "new "+b.Type+"("+callArgs(names, b.Params)+")", len(b.Members) > 0, names)
}

// ProviderMethodBinding calls a provider method declared on a module.
type ProviderMethodBinding struct {
	binding
	Module string
	Method string
	Params []Param
}

// NewProviderMethodBinding binds key to module.method(params...).
func NewProviderMethodBinding(key Key, module, method string, params []Param, ctx Context, pkg string) *ProviderMethodBinding {
	b := &ProviderMethodBinding{Module: module, Method: method, Params: params}
	deps := make([]Dependency, 0, len(params))
	for _, p := range params {
		deps = append(deps, Dependency{
			Source:   key,
			Target:   p.Key,
			Optional: p.Optional,
			Lazy:     isProviderKey(p.Key),
			Context:  "parameter of " + module + "." + method,
		})
	}
	b.binding = newBinding(key, ctx, pkg, deps...)
	return b
}

func (b *ProviderMethodBinding) Kind() BindingKind { return KindProviderMethod }

func (b *ProviderMethodBinding) CreationStatements(names MethodNamer) []string {
	return []string{"return " + names.Module(b.Module) + "." + b.Method + "(" + callArgs(names, b.Params) + ");"}
}

// FactoryProduct is one creation method of an assisted factory.
type FactoryProduct struct {
	Method         string
	Returns        Key
	Implementation string
	Params         []Param
}

// FactoryBinding implements a factory interface whose methods combine
// caller-supplied arguments with injected ones.
type FactoryBinding struct {
	binding
	Products []FactoryProduct
}

// NewFactoryBinding binds key to a generated factory implementation.
func NewFactoryBinding(key Key, products []FactoryProduct, ctx Context, pkg string) *FactoryBinding {
	b := &FactoryBinding{Products: products}
	var deps []Dependency
	for _, prod := range products {
		for _, p := range prod.Params {
			if p.IsAssisted() {
				continue
			}
			deps = append(deps, Dependency{
				Source:   key,
				Target:   p.Key,
				Optional: p.Optional,
				Lazy:     isProviderKey(p.Key),
				Context:  "parameter of " + prod.Implementation + " created by " + prod.Method,
			})
		}
	}
	b.binding = newBinding(key, ctx, pkg, deps...)
	return b
}

func (b *FactoryBinding) Kind() BindingKind { return KindFactory }

func (b *FactoryBinding) CreationStatements(names MethodNamer) []string {
	lines := []string{"return new " + b.key.TypeName() + "() {"}
	for _, prod := range b.Products {
		var assisted []string
		args := make([]string, 0, len(prod.Params))
		for i, p := range prod.Params {
			if p.IsAssisted() {
				arg := "p" + strconv.Itoa(i)
				assisted = append(assisted, p.Key.TypeName()+" "+arg)
				args = append(args, arg)
				continue
			}
			args = append(args, names.Getter(p.Key)+"()")
		}
		lines = append(lines, "  public "+prod.Returns.TypeName()+" "+prod.Method+"("+strings.Join(assisted, ", ")+") {",
			"    return new "+prod.Implementation+"("+strings.Join(args, ", ")+");",
			"  }")
	}
	return append(lines, "};")
}

// ImplicitProviderBinding supplies Provider<T> or AsyncProvider<T> by deferring to T.
type ImplicitProviderBinding struct {
	binding
	Target Key
	Async  bool
}

// NewImplicitProviderBinding binds a provider key to a deferred lookup of target.
func NewImplicitProviderBinding(key, target Key, async bool, ctx Context, pkg string) *ImplicitProviderBinding {
	b := &ImplicitProviderBinding{Target: target, Async: async}
	b.binding = newBinding(key, ctx, pkg, Dependency{Source: key, Target: target, Lazy: true, Context: ctx.String()})
	return b
}

func (b *ImplicitProviderBinding) Kind() BindingKind {
	if b.Async {
		return KindAsyncProvider
	}
	return KindImplicitProvider
}

func (b *ImplicitProviderBinding) CreationStatements(names MethodNamer) []string {
	t := b.Target.TypeName()
	if b.Async {
		return []string{
			"return new " + AsyncProviderType + "<" + t + ">() {",
			"  public void get(final AsyncCallback<? super " + t + "> callback) {",
			"    GWT.runAsync(new RunAsyncCallback() {",
			"      public void onSuccess() { callback.onSuccess(" + names.Getter(b.Target) + "()); }",
			"      public void onFailure(Throwable ex) { callback.onFailure(ex); }",
			"    });",
			"  }",
			"};",
		}
	}
	return []string{
		"return new " + ProviderType + "<" + t + ">() {",
		"  public " + t + " get() { return " + names.Getter(b.Target) + "(); }",
		"};",
	}
}

// PlatformCreateBinding asks the host platform to instantiate a type, honoring rebind rules.
// When Service is set the binding creates the asynchronous proxy of that remote service.
type PlatformCreateBinding struct {
	binding
	Type    string
	Service string
	Members []InjectionPoint
}

// NewPlatformCreateBinding binds key to a platform instantiation of typeName.
func NewPlatformCreateBinding(key Key, typeName string, members []InjectionPoint, ctx Context, pkg string) *PlatformCreateBinding {
	b := &PlatformCreateBinding{Type: typeName, Members: members}
	b.binding = newBinding(key, ctx, pkg, MemberInjection{Type: typeName, Points: members}.Dependencies(key)...)
	return b
}

// NewRemoteServiceProxyBinding binds an async service interface to the proxy of its service.
func NewRemoteServiceProxyBinding(key Key, service string, ctx Context, pkg string) *PlatformCreateBinding {
	b := &PlatformCreateBinding{Type: key.RawType(), Service: service}
	b.binding = newBinding(key, ctx, pkg)
	return b
}

func (b *PlatformCreateBinding) Kind() BindingKind {
	if b.Service != "" {
		return KindRemoteServiceProxy
	}
	return KindPlatformCreate
}

func (b *PlatformCreateBinding) MemberInjectRequests() []MemberInjection {
	if len(b.Members) == 0 {
		return nil
	}
	return []MemberInjection{{Type: b.Type, Points: b.Members}}
}

func (b *PlatformCreateBinding) CreationStatements(names MethodNamer) []string {
	created := b.Type
	if b.Service != "" {
		created = b.Service
	}
	return instantiate(b.Type, "GWT.create("+created+".class)", len(b.Members) > 0, names)
}

// ParentForwardBinding makes a key resolved in the parent visible in a child node.
type ParentForwardBinding struct {
	binding
	Parent *Node
}

// NewParentForwardBinding forwards key from a child node to parent.
func NewParentForwardBinding(key Key, parent *Node, pkg string) *ParentForwardBinding {
	ctx := Context("inherited from " + parent.Path())
	b := &ParentForwardBinding{Parent: parent}
	b.binding = newBinding(key, ctx, pkg, Dependency{Source: key, Target: key, CrossNode: true, Context: ctx.String()})
	return b
}

func (b *ParentForwardBinding) Kind() BindingKind { return KindParentForward }

func (b *ParentForwardBinding) CreationStatements(names MethodNamer) []string {
	return []string{"return " + names.Injector(b.Parent) + "." + names.Getter(b.key) + "();"}
}

// ChildExposeBinding makes a key bound inside a private child visible in its parent.
type ChildExposeBinding struct {
	binding
	Child *Node
}

// NewChildExposeBinding exposes key from child to the child's parent.
func NewChildExposeBinding(key Key, child *Node, pkg string) *ChildExposeBinding {
	ctx := Context("exposed from " + child.Path())
	b := &ChildExposeBinding{Child: child}
	b.binding = newBinding(key, ctx, pkg, Dependency{Source: key, Target: key, CrossNode: true, Context: ctx.String()})
	return b
}

func (b *ChildExposeBinding) Kind() BindingKind { return KindChildExpose }

func (b *ChildExposeBinding) CreationStatements(names MethodNamer) []string {
	return []string{"return " + names.Injector(b.Child) + "." + names.Getter(b.key) + "();"}
}

// InjectorSelfBinding binds the injector interface to the generated injector.
type InjectorSelfBinding struct {
	binding
}

// NewInjectorSelfBinding binds key, the injector interface, to the injector itself.
func NewInjectorSelfBinding(key Key) *InjectorSelfBinding {
	b := &InjectorSelfBinding{}
	b.binding = newBinding(key, Context("injector "+key.String()), "")
	return b
}

func (b *InjectorSelfBinding) Kind() BindingKind { return KindInjectorSelf }

func (b *InjectorSelfBinding) CreationStatements(_ MethodNamer) []string {
	return []string{"return this;"}
}

func callArgs(names MethodNamer, params []Param) string {
	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, names.Getter(p.Key)+"()")
	}
	return strings.Join(args, ", ")
}

func instantiate(typeName, expr string, injectMembers bool, names MethodNamer) []string {
	if !injectMembers {
		return []string{"return " + expr + ";"}
	}
	return []string{
		typeName + " result = " + expr + ";",
		names.MemberInjector(typeName) + "(result);",
		"return result;",
	}
}

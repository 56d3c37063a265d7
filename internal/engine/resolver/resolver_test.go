package resolver_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports/mocks"
	"go.trai.ch/weave/internal/engine/implicit"
	"go.trai.ch/weave/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

var (
	fooKey = domain.NewKey("com.example.Foo")
	barKey = domain.NewKey("com.example.Bar")
	bazKey = domain.NewKey("com.example.Baz")
)

// fixture is the tree root -> childL -> {childLL, childLR}; root -> childR.
type fixture struct {
	tree      *domain.Tree
	root      *domain.Node
	left      *domain.Node
	leftLeft  *domain.Node
	leftRight *domain.Node
	right     *domain.Node

	types    *domain.TypeRegistry
	diags    *domain.Diagnostics
	resolver *resolver.Resolver
}

func newFixture(t *testing.T, methods ...domain.InjectorMethod) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	tree, err := domain.NewTree(domain.InjectorInterface{Type: "com.example.AppInjector", Methods: methods})
	require.NoError(t, err)

	f := &fixture{
		tree:  tree,
		root:  tree.Root,
		types: domain.NewTypeRegistry(),
		diags: domain.NewDiagnostics(),
	}
	f.left = f.root.AddChild("childL", true)
	f.leftLeft = f.left.AddChild("childLL", true)
	f.leftRight = f.left.AddChild("childLR", true)
	f.right = f.root.AddChild("childR", true)
	f.resolver = resolver.New(implicit.NewCreator(f.types), f.diags, logger)
	return f
}

// plain declares a public class with an implicit zero-argument constructor.
func (f *fixture) plain(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, f.types.Register(domain.TypeInfo{Name: name, Kind: domain.KindClass, Visibility: domain.Public}))
	}
}

// injectable declares a public class whose @Inject constructor takes params.
func (f *fixture) injectable(t *testing.T, name string, params ...domain.Param) {
	t.Helper()
	require.NoError(t, f.types.Register(domain.TypeInfo{
		Name:       name,
		Kind:       domain.KindClass,
		Visibility: domain.Public,
		Constructors: []domain.Constructor{
			{Inject: true, Visibility: domain.Public, Params: params},
		},
	}))
}

func required(k domain.Key) domain.Param { return domain.Param{Key: k} }

func optional(k domain.Key) domain.Param { return domain.Param{Key: k, Optional: true} }

func requireForward(t *testing.T, n *domain.Node, key domain.Key, parent *domain.Node) {
	t.Helper()
	b, ok := n.Binding(key)
	require.True(t, ok, "%s has no entry for %s", n.Path(), key)
	fwd, ok := b.(*domain.ParentForwardBinding)
	require.True(t, ok, "%s binds %s as %s, want a parent forward", n.Path(), key, b.Kind())
	assert.Same(t, parent, fwd.Parent)
}

func messages(d *domain.Diagnostics) []string {
	var out []string
	for _, e := range d.Entries() {
		out = append(out, e.Error())
	}
	return out
}

func TestResolveAndInherit_PlacesAtRootWhenDependenciesAllowIt(t *testing.T) {
	f := newFixture(t)
	f.plain(t, barKey.TypeName(), bazKey.TypeName())
	f.injectable(t, fooKey.TypeName(), required(barKey), required(bazKey))

	owner, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	require.Same(t, f.root, owner)

	foo, ok := f.root.Binding(fooKey)
	require.True(t, ok)
	assert.Equal(t, domain.KindConstructor, foo.Kind())
	assert.True(t, f.root.HasBinding(barKey))
	assert.True(t, f.root.HasBinding(bazKey))

	requireForward(t, f.leftLeft, fooKey, f.left)
	requireForward(t, f.left, fooKey, f.root)
	assert.False(t, f.leftRight.HasBinding(fooKey))
	assert.False(t, f.right.HasBinding(fooKey))
	assert.False(t, f.diags.HasErrors())
}

func TestResolveAndInherit_PlacesAtLowestNodeThatSeesEveryDependency(t *testing.T) {
	f := newFixture(t)
	f.plain(t, bazKey.TypeName(), "com.example.BarImpl")
	f.injectable(t, fooKey.TypeName(), required(barKey), required(bazKey))
	require.NoError(t, f.left.AddBinding(
		domain.NewLinkedBinding(barKey, domain.NewKey("com.example.BarImpl"), "module LeftModule", "")))

	owner, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	require.Same(t, f.left, owner)

	foo, ok := f.left.Binding(fooKey)
	require.True(t, ok)
	assert.Equal(t, domain.KindConstructor, foo.Kind())
	assert.False(t, f.root.HasBinding(fooKey))

	assert.True(t, f.root.HasBinding(bazKey))
	requireForward(t, f.left, bazKey, f.root)
	requireForward(t, f.leftLeft, fooKey, f.left)
}

func TestResolveAndInherit_OptionalDependencyFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.types.Register(domain.TypeInfo{
		Name: bazKey.TypeName(), Kind: domain.KindClass, Abstract: true, Visibility: domain.Public,
	}))
	f.injectable(t, barKey.TypeName(), required(bazKey))
	f.injectable(t, fooKey.TypeName(), optional(barKey))

	owner, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	require.Same(t, f.root, owner)

	for n := range f.tree.Nodes() {
		assert.False(t, n.HasBinding(barKey), "bar bound in %s", n.Path())
		assert.False(t, n.HasBinding(bazKey), "baz bound in %s", n.Path())
	}

	assert.False(t, f.diags.HasErrors(), "%v", messages(f.diags))
	require.NotEmpty(t, f.diags.Entries())
	for _, e := range f.diags.Entries() {
		assert.Equal(t, domain.SeverityWarning, e.Severity)
	}
	assert.Contains(t, f.diags.Entries()[0].Message, bazKey.String())
}

func TestResolveAndInherit_RequiredDependencyFailurePropagates(t *testing.T) {
	f := newFixture(t)
	missing := domain.NewKey("com.example.Missing")
	f.injectable(t, fooKey.TypeName(), required(missing))

	owner, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	assert.Nil(t, owner)

	for n := range f.tree.Nodes() {
		assert.False(t, n.HasBinding(fooKey), "foo bound in %s", n.Path())
	}

	require.True(t, f.diags.HasErrors())
	errs := f.diags.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, domain.DiagUnsatisfiable, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "not declared")
	assert.Contains(t, errs[0].Message, "path: com.example.Foo -> com.example.Missing")
	assert.Contains(t, errs[0].Message, "requested in AppInjector/childL/childLL")
	assert.Contains(t, errs[1].Message, "com.example.Foo cannot be created")
}

func TestResolveAndInherit_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.plain(t, barKey.TypeName(), bazKey.TypeName())
	f.injectable(t, fooKey.TypeName(), required(barKey), required(bazKey))

	first, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)

	sizes := map[string]int{}
	for n := range f.tree.Nodes() {
		sizes[n.Path()] = n.Len()
	}

	second, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	assert.Same(t, first, second)

	for n := range f.tree.Nodes() {
		assert.Equal(t, sizes[n.Path()], n.Len(), "bindings changed in %s", n.Path())
	}
}

func TestResolveAndInherit_SiblingsNeverShare(t *testing.T) {
	f := newFixture(t)
	aKey := domain.NewKey("com.example.A")
	f.plain(t, barKey.TypeName(), "com.example.BarImpl")
	f.injectable(t, aKey.TypeName(), required(barKey))

	rightBar := domain.NewLinkedBinding(barKey, domain.NewKey("com.example.BarImpl"), "module RightModule", "")
	require.NoError(t, f.right.AddBinding(rightBar))

	owner, err := f.resolver.ResolveAndInherit(f.left, aKey, false, "test")
	require.NoError(t, err)
	require.Same(t, f.left, owner)

	bar, ok := f.left.Binding(barKey)
	require.True(t, ok)
	assert.Equal(t, domain.KindPlatformCreate, bar.Kind())
	assert.False(t, f.root.HasBinding(barKey))
	assert.False(t, f.root.HasBinding(aKey))

	stillRight, _ := f.right.Binding(barKey)
	assert.Same(t, rightBar, stillRight)
	assert.False(t, f.diags.HasErrors())
}

func TestResolveAndInherit_Cycle(t *testing.T) {
	f := newFixture(t)
	f.injectable(t, barKey.TypeName(), required(bazKey))
	f.injectable(t, bazKey.TypeName(), required(barKey))

	owner, err := f.resolver.ResolveAndInherit(f.root, barKey, false, "test")
	require.NoError(t, err)
	assert.Nil(t, owner)

	assert.False(t, f.root.HasBinding(barKey))
	assert.False(t, f.root.HasBinding(bazKey))

	errs := f.diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, domain.DiagCircular, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "com.example.Bar -> com.example.Baz -> com.example.Bar")
}

func TestResolveAndInherit_CycleThroughProviderIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.injectable(t, fooKey.TypeName(), required(domain.ProviderOf(fooKey)))

	owner, err := f.resolver.ResolveAndInherit(f.leftLeft, fooKey, false, "test")
	require.NoError(t, err)
	require.Same(t, f.root, owner)

	provider, ok := f.root.Binding(domain.ProviderOf(fooKey))
	require.True(t, ok)
	assert.Equal(t, domain.KindImplicitProvider, provider.Kind())
	assert.Empty(t, f.diags.Entries())
}

func TestResolveAndInherit_CycleThroughOptionalDependencyIsAllowed(t *testing.T) {
	t.Run("on demand", func(t *testing.T) {
		f := newFixture(t)
		f.injectable(t, fooKey.TypeName(), optional(barKey))
		f.injectable(t, barKey.TypeName(), required(fooKey))

		owner, err := f.resolver.ResolveAndInherit(f.root, fooKey, false, "test")
		require.NoError(t, err)
		require.Same(t, f.root, owner)

		assert.True(t, f.root.HasBinding(fooKey))
		assert.True(t, f.root.HasBinding(barKey))
		assert.Empty(t, f.diags.Entries(), "%v", messages(f.diags))
	})

	t.Run("whole tree", func(t *testing.T) {
		f := newFixture(t, domain.InjectorMethod{Name: "getFoo", Key: fooKey})
		f.injectable(t, fooKey.TypeName(), optional(barKey))
		f.injectable(t, barKey.TypeName(), required(fooKey))

		require.NoError(t, f.resolver.ResolveTree(f.tree))

		assert.False(t, f.diags.HasErrors(), "%v", messages(f.diags))
		assert.True(t, f.root.HasBinding(fooKey))
		assert.True(t, f.root.HasBinding(barKey))
	})
}

func TestResolveAndInherit_KeyHiddenInChild(t *testing.T) {
	f := newFixture(t)
	f.plain(t, barKey.TypeName(), "com.example.BarImpl")
	require.NoError(t, f.leftLeft.AddBinding(
		domain.NewLinkedBinding(barKey, domain.NewKey("com.example.BarImpl"), "module Inner", "")))

	owner, err := f.resolver.ResolveAndInherit(f.left, barKey, false, "test")
	require.NoError(t, err)
	assert.Nil(t, owner)

	errs := f.diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, domain.DiagVisibility, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "private module below AppInjector/childL")
}

func TestResolveAndInherit_KeyBoundInSiblingWithoutImplicitBinding(t *testing.T) {
	f := newFixture(t)
	service := domain.NewKey("com.example.Service")
	require.NoError(t, f.right.AddBinding(
		domain.NewLinkedBinding(service, domain.NewKey("com.example.ServiceImpl"), "module RightModule", "")))

	owner, err := f.resolver.ResolveAndInherit(f.left, service, false, "test")
	require.NoError(t, err)
	assert.Nil(t, owner)

	errs := f.diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, domain.DiagVisibility, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "bound in AppInjector/childR")
}

func TestResolveAndInherit_ForwardToNonParentIsInternal(t *testing.T) {
	f := newFixture(t)
	f.plain(t, fooKey.TypeName())
	require.NoError(t, f.right.AddBinding(domain.NewParentForwardBinding(fooKey, f.left, "")))

	_, err := f.resolver.ResolveAndInherit(f.right, fooKey, false, "test")
	require.Error(t, err)

	errs := f.diags.Errors()
	require.NotEmpty(t, errs)
	assert.Equal(t, domain.DiagInternal, errs[0].Kind)
}

func TestNode_TwoChildrenExposingOneKeyIsDoubleBinding(t *testing.T) {
	f := newFixture(t)
	f.plain(t, fooKey.TypeName())
	require.NoError(t, f.leftLeft.AddBinding(domain.NewLinkedBinding(fooKey, barKey, "module LL", "")))
	require.NoError(t, f.leftRight.AddBinding(domain.NewLinkedBinding(fooKey, bazKey, "module LR", "")))

	require.NoError(t, f.left.AddBinding(domain.NewChildExposeBinding(fooKey, f.leftLeft, "")))
	err := f.left.AddBinding(domain.NewChildExposeBinding(fooKey, f.leftRight, ""))
	require.Error(t, err)

	b, _ := f.left.Binding(fooKey)
	assert.Same(t, f.leftLeft, b.(*domain.ChildExposeBinding).Child)
}

func TestResolveTree(t *testing.T) {
	widget := domain.MemberInjection{
		Type: "com.example.Widget",
		Points: []domain.InjectionPoint{
			{Owner: "com.example.Widget", Name: "baz", Kind: domain.MemberField, Params: []domain.Param{required(bazKey)}},
		},
	}
	f := newFixture(t,
		domain.InjectorMethod{Name: "getFoo", Key: fooKey},
		domain.InjectorMethod{Name: "injectWidget", MemberInject: &widget},
	)
	f.plain(t, barKey.TypeName(), bazKey.TypeName(), "com.example.Exposed")
	f.injectable(t, fooKey.TypeName(), required(barKey))

	exposed := domain.NewKey("com.example.Exposed")
	client := domain.NewKey("com.example.Client")
	clientImpl := domain.NewKey("com.example.ClientImpl")
	f.injectable(t, clientImpl.TypeName(), required(exposed))
	require.NoError(t, f.leftLeft.AddBinding(domain.NewProviderMethodBinding(
		client, "com.example.InnerModule", "provideClient",
		[]domain.Param{required(exposed), required(barKey)}, "module InnerModule", "")))
	require.NoError(t, f.leftRight.AddBinding(domain.NewLinkedBinding(client, clientImpl, "module OtherModule", "")))

	require.NoError(t, f.root.AddBinding(
		domain.NewProviderMethodBinding(exposed, "com.example.AppModule", "provideExposed", nil, "module AppModule", "")))

	require.NoError(t, f.resolver.ResolveTree(f.tree))
	assert.False(t, f.diags.HasErrors(), "%v", messages(f.diags))

	assert.True(t, f.root.HasBinding(fooKey))
	assert.True(t, f.root.HasBinding(barKey))
	assert.True(t, f.root.HasBinding(bazKey))
	assert.True(t, f.root.HasMemberInjection("com.example.Widget"))

	requireForward(t, f.leftLeft, exposed, f.left)
	requireForward(t, f.left, exposed, f.root)
	requireForward(t, f.leftLeft, barKey, f.left)

	// Both siblings bind Client privately; the implementation behind one of them is shared.
	assert.True(t, f.root.HasBinding(clientImpl))
	requireForward(t, f.leftRight, clientImpl, f.left)
	assert.False(t, f.leftLeft.HasBinding(clientImpl))

	assertNoDuplicateOwners(t, f.tree)
}

func TestResolveTree_HierarchyErrors(t *testing.T) {
	t.Run("key bound in node and ancestor", func(t *testing.T) {
		f := newFixture(t)
		f.plain(t, "com.example.BarImpl", "com.example.OtherBar")
		require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(barKey, domain.NewKey("com.example.BarImpl"), "module Root", "")))
		require.NoError(t, f.leftLeft.AddBinding(domain.NewLinkedBinding(barKey, domain.NewKey("com.example.OtherBar"), "module Inner", "")))

		require.NoError(t, f.resolver.ResolveTree(f.tree))

		errs := f.diags.Errors()
		require.Len(t, errs, 1, "%v", messages(f.diags))
		assert.Equal(t, domain.DiagDoubleBinding, errs[0].Kind)
		assert.Contains(t, errs[0].Message, "AppInjector/childL/childLL")
	})

	t.Run("exposed key not bound in child", func(t *testing.T) {
		f := newFixture(t)
		f.plain(t, fooKey.TypeName())
		require.NoError(t, f.left.AddBinding(domain.NewChildExposeBinding(fooKey, f.leftLeft, "")))

		require.NoError(t, f.resolver.ResolveTree(f.tree))

		errs := f.diags.Errors()
		require.NotEmpty(t, errs)
		assert.Equal(t, domain.DiagUnsatisfiable, errs[0].Kind)
		assert.Contains(t, errs[0].Message, "not explicitly bound")
	})

	t.Run("exposure from a node that is not a child", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.root.AddBinding(domain.NewChildExposeBinding(fooKey, f.leftLeft, "")))

		require.Error(t, f.resolver.ResolveTree(f.tree))
		assert.Equal(t, domain.DiagInternal, f.diags.Errors()[0].Kind)
	})

	t.Run("exposure is not a double binding", func(t *testing.T) {
		f := newFixture(t)
		f.plain(t, "com.example.FooImpl")
		require.NoError(t, f.leftLeft.AddBinding(domain.NewLinkedBinding(fooKey, domain.NewKey("com.example.FooImpl"), "module Inner", "")))
		require.NoError(t, f.left.AddBinding(domain.NewChildExposeBinding(fooKey, f.leftLeft, "")))

		require.NoError(t, f.resolver.ResolveTree(f.tree))
		assert.False(t, f.diags.HasErrors(), "%v", messages(f.diags))
	})

	t.Run("key bound twice in one node", func(t *testing.T) {
		missing := domain.NewKey("com.example.Missing")
		f := newFixture(t, domain.InjectorMethod{Name: "getMissing", Key: missing})
		f.plain(t, "com.example.BarImpl", "com.example.OtherBar")
		first := domain.NewLinkedBinding(barKey, domain.NewKey("com.example.BarImpl"), "module A", "")
		second := domain.NewLinkedBinding(barKey, domain.NewKey("com.example.OtherBar"), "module B", "")
		require.NoError(t, f.root.AddBinding(first))
		require.Error(t, f.root.AddBinding(second))
		f.root.RecordConflict(second)

		require.NoError(t, f.resolver.ResolveTree(f.tree))

		errs := f.diags.Errors()
		require.Len(t, errs, 2, "%v", messages(f.diags))
		assert.Equal(t, domain.DiagDoubleBinding, errs[0].Kind)
		assert.Contains(t, errs[0].Message, "bound more than once in AppInjector: module A and module B")
		assert.Equal(t, domain.DiagUnsatisfiable, errs[1].Kind)
		assert.Contains(t, errs[1].Message, missing.String())
	})
}

func TestResolveTree_ExplicitCycle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(barKey, bazKey, "module A", "")))
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(bazKey, barKey, "module A", "")))

	require.NoError(t, f.resolver.ResolveTree(f.tree))

	errs := f.diags.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, domain.DiagCircular, errs[0].Kind)
	assert.Contains(t, errs[0].Message, "com.example.Bar -> com.example.Baz -> com.example.Bar")
}

func TestResolveTree_EveryExplicitCycleIsReported(t *testing.T) {
	f := newFixture(t)
	quxKey := domain.NewKey("com.example.Qux")
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(barKey, bazKey, "module A", "")))
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(bazKey, barKey, "module A", "")))
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(fooKey, quxKey, "module B", "")))
	require.NoError(t, f.root.AddBinding(domain.NewLinkedBinding(quxKey, fooKey, "module B", "")))

	require.NoError(t, f.resolver.ResolveTree(f.tree))

	errs := f.diags.Errors()
	require.Len(t, errs, 2, "%v", messages(f.diags))
	var joined []string
	for _, e := range errs {
		assert.Equal(t, domain.DiagCircular, e.Kind)
		joined = append(joined, e.Message)
	}
	assert.Contains(t, strings.Join(joined, "\n"), "com.example.Bar")
	assert.Contains(t, strings.Join(joined, "\n"), "com.example.Qux")
}

func TestResolveTree_WarningUpgradesToErrorWhenRequiredElsewhere(t *testing.T) {
	f := newFixture(t)
	aKey := domain.NewKey("com.example.A")
	cKey := domain.NewKey("com.example.C")
	missing := domain.NewKey("com.example.Missing")
	require.NoError(t, f.root.AddBinding(domain.NewProviderMethodBinding(
		aKey, "com.example.AppModule", "provideA", []domain.Param{optional(missing)}, "module AppModule", "")))
	require.NoError(t, f.left.AddBinding(domain.NewLinkedBinding(cKey, missing, "module LeftModule", "")))

	require.NoError(t, f.resolver.ResolveTree(f.tree))

	require.True(t, f.diags.HasErrors(), "%v", messages(f.diags))
	require.Error(t, f.diags.Err())

	warnings := 0
	for _, e := range f.diags.Entries() {
		if e.Severity == domain.SeverityWarning {
			warnings++
			assert.Contains(t, e.Message, missing.String())
		}
	}
	assert.Equal(t, 1, warnings, "%v", messages(f.diags))

	errs := f.diags.Errors()
	require.Len(t, errs, 2, "%v", messages(f.diags))
	assert.Contains(t, errs[0].Message, missing.String())
	assert.Contains(t, errs[0].Message, "requested in AppInjector/childL")
	assert.Contains(t, errs[1].Message, "com.example.C cannot be created because its dependency com.example.Missing failed")
}

// assertNoDuplicateOwners checks that no root-to-leaf path binds a key twice
// outside of forwarding entries.
func assertNoDuplicateOwners(t *testing.T, tree *domain.Tree) {
	t.Helper()
	for n := range tree.Nodes() {
		if len(n.Children()) > 0 {
			continue
		}
		owners := map[domain.Key]string{}
		for _, c := range n.Chain() {
			for key, b := range c.Bindings() {
				if domain.IsForwarding(b) {
					continue
				}
				if prev, dup := owners[key]; dup {
					t.Errorf("%s is owned by both %s and %s", key, prev, c.Path())
				}
				owners[key] = c.Path()
			}
		}
	}
}

package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/core/domain"
)

var (
	fooKey = domain.NewKey("com.example.Foo")
	barKey = domain.NewKey("com.example.Bar")
	bazKey = domain.NewKey("com.example.Baz")
)

func TestBinding_DependenciesStartAtGinjector(t *testing.T) {
	bindings := []domain.Binding{
		domain.NewLinkedBinding(fooKey, barKey, "module A", ""),
		domain.NewProviderKeyBinding(fooKey, barKey, "module A", ""),
		domain.NewConstantBinding(fooKey, "x", "module A"),
		domain.NewConstructorBinding(fooKey, "com.example.Foo", nil, nil, "module A", ""),
		domain.NewInjectorSelfBinding(fooKey),
	}

	for _, b := range bindings {
		t.Run(b.Kind().String(), func(t *testing.T) {
			deps := b.Dependencies()
			require.NotEmpty(t, deps)
			assert.True(t, deps[0].IsRoot())
			assert.Equal(t, fooKey, deps[0].Target)
		})
	}
}

func TestBinding_ProviderKeyHasTwoEdges(t *testing.T) {
	provider := domain.NewKey("com.example.FooProvider")
	b := domain.NewProviderKeyBinding(fooKey, provider, "module A", "")

	deps := b.Dependencies()
	require.Len(t, deps, 2)
	assert.Equal(t, domain.Ginjector, deps[0].Source)
	assert.Equal(t, fooKey, deps[1].Source)
	assert.Equal(t, provider, deps[1].Target)
}

func TestBinding_Requirements(t *testing.T) {
	b := domain.NewConstructorBinding(
		fooKey,
		"com.example.Foo",
		[]domain.Param{{Key: barKey}, {Key: bazKey, Optional: true}, {Key: barKey, Optional: true}},
		nil,
		"implicit",
		"",
	)

	reqs := b.Requirements()
	assert.Equal(t, []domain.Key{barKey}, reqs.Required)
	assert.Equal(t, []domain.Key{bazKey}, reqs.Optional)
}

func TestBinding_ProviderEdgesAreLazy(t *testing.T) {
	b := domain.NewConstructorBinding(
		fooKey,
		"com.example.Foo",
		[]domain.Param{{Key: domain.ProviderOf(barKey)}},
		nil,
		"implicit",
		"",
	)

	deps := b.Dependencies()
	require.Len(t, deps, 2)
	assert.True(t, deps[1].Lazy)

	implicit := domain.NewImplicitProviderBinding(domain.ProviderOf(barKey), barKey, false, "implicit", "")
	assert.True(t, implicit.Dependencies()[1].Lazy)
	assert.Equal(t, domain.KindImplicitProvider, implicit.Kind())
}

func TestBinding_MemberInjectRequests(t *testing.T) {
	members := []domain.InjectionPoint{{
		Owner:  "com.example.Foo",
		Name:   "setBar",
		Kind:   domain.MemberMethod,
		Params: []domain.Param{{Key: barKey}},
	}}
	b := domain.NewConstructorBinding(fooKey, "com.example.Foo", nil, members, "implicit", "")

	reqs := b.MemberInjectRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "com.example.Foo", reqs[0].Type)
	assert.Equal(t, []domain.Key{barKey}, b.Requirements().Required)

	assert.Equal(t, []string{
		"com.example.Foo result = new com.example.Foo();",
		"memberInject_com_example_Foo(result);",
		"return result;",
	}, b.CreationStatements(domain.DefaultNamer{}))
}

func TestBinding_FactorySkipsAssistedParams(t *testing.T) {
	assisted := domain.NewQualifiedKey("java.lang.String", domain.AssistedQualifier)
	b := domain.NewFactoryBinding(fooKey, []domain.FactoryProduct{{
		Method:         "create",
		Returns:        barKey,
		Implementation: "com.example.BarImpl",
		Params:         []domain.Param{{Key: assisted}, {Key: bazKey}},
	}}, "module A", "")

	assert.Equal(t, []domain.Key{bazKey}, b.Requirements().Required)
}

func TestBinding_CreationStatements(t *testing.T) {
	names := domain.DefaultNamer{}

	tests := []struct {
		name    string
		binding domain.Binding
		want    []string
	}{
		{
			name:    "linked",
			binding: domain.NewLinkedBinding(fooKey, barKey, "m", ""),
			want:    []string{"return get_com_example_Bar();"},
		},
		{
			name:    "provider key",
			binding: domain.NewProviderKeyBinding(fooKey, barKey, "m", ""),
			want:    []string{"return get_com_example_Bar().get();"},
		},
		{
			name:    "string constant",
			binding: domain.NewConstantBinding(domain.NewQualifiedKey("java.lang.String", "@Url"), "http://x", "m"),
			want:    []string{`return "http://x";`},
		},
		{
			name:    "enum constant",
			binding: domain.NewConstantBinding(domain.NewKey("com.example.Color"), "RED", "m"),
			want:    []string{"return com.example.Color.RED;"},
		},
		{
			name:    "self",
			binding: domain.NewInjectorSelfBinding(fooKey),
			want:    []string{"return this;"},
		},
		{
			name: "provider method",
			binding: domain.NewProviderMethodBinding(
				fooKey, "com.example.AppModule", "provideFoo", []domain.Param{{Key: barKey}}, "m", "",
			),
			want: []string{"return module_com_example_AppModule.provideFoo(get_com_example_Bar());"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.binding.CreationStatements(names))
		})
	}
}

func TestIsForwarding(t *testing.T) {
	tree, err := domain.NewTree(domain.InjectorInterface{Type: "com.example.AppInjector"})
	require.NoError(t, err)
	child := tree.Root.AddChild("child", true)

	assert.True(t, domain.IsForwarding(domain.NewParentForwardBinding(fooKey, tree.Root, "")))
	assert.True(t, domain.IsForwarding(domain.NewChildExposeBinding(fooKey, child, "")))
	assert.False(t, domain.IsForwarding(domain.NewLinkedBinding(fooKey, barKey, "m", "")))
}

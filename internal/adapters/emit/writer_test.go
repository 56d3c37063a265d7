package emit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/weave/internal/adapters/emit"
	"go.trai.ch/weave/internal/core/domain"
)

func samplePlan() *domain.EmissionPlan {
	return &domain.EmissionPlan{
		Injector: "com.example.AppInjector",
		Nodes: []domain.NodePlan{
			{
				Path: "AppInjector",
				Getters: []domain.GetterPlan{
					{
						Key:        "com.example.Foo",
						Kind:       "Implicit",
						Scope:      "Singleton",
						Method:     "get_com_example_Foo",
						Statements: []string{"new com.example.Foo(get_com_example_Bar())"},
					},
					{
						Key:        "com.example.Bar",
						Kind:       "Implicit",
						Method:     "get_com_example_Bar",
						Statements: []string{"new com.example.Bar()"},
					},
				},
			},
			{
				Path:   "AppInjector/child",
				Parent: "AppInjector",
				Getters: []domain.GetterPlan{
					{
						Key:        "com.example.Foo",
						Kind:       "ParentForward",
						Method:     "get_com_example_Foo",
						ForwardTo:  "AppInjector",
						Statements: []string{"parent.get_com_example_Foo()"},
					},
				},
				MemberInjectors: []domain.InjectorPlan{
					{Type: "com.example.Widget", Method: "memberInject_com_example_Widget", Points: []string{"field foo"}},
				},
			},
		},
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gen")

	path, err := emit.NewWriter().Write(context.Background(), dir, samplePlan())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "AppInjector.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "app_injector", data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_WriteReplaces(t *testing.T) {
	dir := t.TempDir()
	w := emit.NewWriter()

	plan := samplePlan()
	_, err := w.Write(context.Background(), dir, plan)
	require.NoError(t, err)

	plan.Nodes = plan.Nodes[:1]
	path, err := w.Write(context.Background(), dir, plan)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "AppInjector/child")
}

func TestWriter_WriteRejectsEmptyPlan(t *testing.T) {
	_, err := emit.NewWriter().Write(context.Background(), t.TempDir(), &domain.EmissionPlan{})
	require.Error(t, err)
}

func TestWriter_WriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := emit.NewWriter().Write(ctx, t.TempDir(), samplePlan())
	require.ErrorIs(t, err, context.Canceled)
}

// Package depgraph provides the flat dependency graph built during one resolution
// build, together with path and reachability queries over it.
package depgraph

import (
	"strings"

	"go.trai.ch/weave/internal/core/domain"
)

// Graph holds dependency edges keyed by source and by target.
// Edges are de-duplicated by their identity; the first context seen wins.
type Graph struct {
	edges      map[domain.Key][]domain.Dependency
	dependants map[domain.Key][]domain.Dependency
	seen       map[domain.Edge]bool
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		edges:      make(map[domain.Key][]domain.Dependency),
		dependants: make(map[domain.Key][]domain.Dependency),
		seen:       make(map[domain.Edge]bool),
	}
}

// Add records an edge. It reports whether the edge was new.
func (g *Graph) Add(dep domain.Dependency) bool {
	id := dep.Edge()
	if g.seen[id] {
		return false
	}
	g.seen[id] = true
	g.edges[dep.Source] = append(g.edges[dep.Source], dep)
	g.dependants[dep.Target] = append(g.dependants[dep.Target], dep)
	return true
}

// DependantsOf returns the edges entering k in insertion order.
func (g *Graph) DependantsOf(k domain.Key) []domain.Dependency {
	return g.dependants[k]
}

// ShortestPath returns the edges of a shortest path from one key to another using
// breadth-first search. With requiredOnly set, optional edges are not followed.
// It returns nil when there is no path or from equals to.
func (g *Graph) ShortestPath(from, to domain.Key, requiredOnly bool) []domain.Dependency {
	if from == to {
		return nil
	}
	via := map[domain.Key]domain.Dependency{}
	visited := map[domain.Key]bool{from: true}
	queue := []domain.Key{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.edges[current] {
			if requiredOnly && dep.Optional {
				continue
			}
			if visited[dep.Target] {
				continue
			}
			visited[dep.Target] = true
			via[dep.Target] = dep
			if dep.Target == to {
				return unwind(via, from, to)
			}
			queue = append(queue, dep.Target)
		}
	}
	return nil
}

func unwind(via map[domain.Key]domain.Dependency, from, to domain.Key) []domain.Dependency {
	var path []domain.Dependency
	for cur := to; cur != from; {
		dep := via[cur]
		path = append(path, dep)
		cur = dep.Source
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// RequiredKeys returns every key reachable from the given key through required edges,
// excluding the key itself unless it lies on a required cycle.
func (g *Graph) RequiredKeys(from domain.Key) map[domain.Key]bool {
	out := make(map[domain.Key]bool)
	stack := []domain.Key{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.edges[current] {
			if dep.Optional || out[dep.Target] {
				continue
			}
			out[dep.Target] = true
			stack = append(stack, dep.Target)
		}
	}
	return out
}

// FormatPath renders a path as "A -> B -> C". The Ginjector is left out.
func FormatPath(path []domain.Dependency) string {
	if len(path) == 0 {
		return ""
	}
	parts := make([]string, 0, len(path)+1)
	if !path[0].Source.IsGinjector() {
		parts = append(parts, path[0].Source.String())
	}
	for _, dep := range path {
		parts = append(parts, dep.Target.String())
	}
	return strings.Join(parts, " -> ")
}

// FormatKeys renders a sequence of keys as "A -> B -> C".
func FormatKeys(keys []domain.Key) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, " -> ")
}

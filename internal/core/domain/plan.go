package domain

import (
	"strings"
	"unicode"
)

// MethodNamer chooses the names generated code uses to refer to getters and helpers.
type MethodNamer interface {
	Getter(key Key) string
	MemberInjector(typeName string) string
	Module(name string) string
	Injector(node *Node) string
}

// DefaultNamer derives names from type descriptors.
type DefaultNamer struct{}

// Getter returns "get_" followed by the mangled key.
func (DefaultNamer) Getter(key Key) string {
	name := "get_" + mangle(key.TypeName())
	if key.IsQualified() {
		name += "_" + mangle(key.Qualifier.String())
	}
	return name
}

// MemberInjector returns "memberInject_" followed by the mangled type.
func (DefaultNamer) MemberInjector(typeName string) string {
	return "memberInject_" + mangle(typeName)
}

// Module returns the field holding a module instance.
func (DefaultNamer) Module(name string) string {
	return "module_" + mangle(name)
}

// Injector returns the field holding the injector fragment of a node.
func (DefaultNamer) Injector(node *Node) string {
	return "injector_" + mangle(node.Path())
}

func mangle(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// EmissionPlan is what the code writer receives for one injector: the reachable part of
// every node, in tree order.
type EmissionPlan struct {
	Injector string     `yaml:"injector"`
	Nodes    []NodePlan `yaml:"nodes"`
}

// NodePlan lists what must be written for a single node.
type NodePlan struct {
	Path             string         `yaml:"path"`
	Parent           string         `yaml:"parent,omitempty"`
	Getters          []GetterPlan   `yaml:"getters,omitempty"`
	MemberInjectors  []InjectorPlan `yaml:"memberInjectors,omitempty"`
	StaticInjections []InjectorPlan `yaml:"staticInjections,omitempty"`
}

// GetterPlan describes the getter of one reachable binding.
type GetterPlan struct {
	Key        string   `yaml:"key"`
	Kind       string   `yaml:"kind"`
	Scope      string   `yaml:"scope,omitempty"`
	Package    string   `yaml:"package,omitempty"`
	Method     string   `yaml:"method"`
	ForwardTo  string   `yaml:"forwardTo,omitempty"`
	Statements []string `yaml:"statements"`
}

// InjectorPlan describes a member or static injection method.
type InjectorPlan struct {
	Type   string   `yaml:"type"`
	Method string   `yaml:"method"`
	Points []string `yaml:"points,omitempty"`
}

// GetterCount returns the number of getters across all nodes.
func (p *EmissionPlan) GetterCount() int {
	n := 0
	for _, node := range p.Nodes {
		n += len(node.Getters)
	}
	return n
}

package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// TypeKind classifies a declared type.
type TypeKind string

// Type kinds understood by the implicit binding creator.
const (
	KindClass     TypeKind = "class"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
	KindPrimitive TypeKind = "primitive"
)

// Visibility is a Java-style access level, ordered from least to most visible.
type Visibility int

// Access levels.
const (
	Private Visibility = iota
	PackagePrivate
	Protected
	Public
)

// ParseVisibility converts a declaration keyword to a Visibility.
// An empty string means public.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "package", "package-private", "default":
		return PackagePrivate, nil
	case "private":
		return Private, nil
	default:
		return Public, zerr.With(zerr.Wrap(ErrInvalidDeclaration, "unknown visibility"), "visibility", s)
	}
}

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case PackagePrivate:
		return "package-private"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Param is a single injected parameter.
type Param struct {
	Key      Key
	Optional bool
}

// IsAssisted reports whether the parameter is supplied by a factory caller.
func (p Param) IsAssisted() bool {
	return strings.HasPrefix(p.Key.Qualifier.String(), AssistedQualifier)
}

// MemberKind distinguishes injectable fields from injectable methods.
type MemberKind string

// Member kinds.
const (
	MemberField  MemberKind = "field"
	MemberMethod MemberKind = "method"
)

// InjectionPoint is an injectable field or method of a type.
// A field has exactly one parameter.
type InjectionPoint struct {
	Owner    string
	Name     string
	Kind     MemberKind
	Params   []Param
	Optional bool
	Static   bool
}

// Keys returns the keys the injection point needs.
func (p InjectionPoint) Keys() []Key {
	keys := make([]Key, 0, len(p.Params))
	for _, param := range p.Params {
		keys = append(keys, param.Key)
	}
	return keys
}

// Dependencies returns the edges from source to every key of the injection point.
// Optional injection points produce optional edges.
func (p InjectionPoint) Dependencies(source Key) []Dependency {
	deps := make([]Dependency, 0, len(p.Params))
	for _, param := range p.Params {
		deps = append(deps, Dependency{
			Source:   source,
			Target:   param.Key,
			Optional: p.Optional || param.Optional,
			Lazy:     isProviderKey(param.Key),
			Context:  "member " + p.Owner + "." + p.Name,
		})
	}
	return deps
}

// Constructor describes a declared constructor.
type Constructor struct {
	Inject     bool
	Visibility Visibility
	Params     []Param
}

// TypeInfo is the declaration-level model of a type.
type TypeInfo struct {
	Name          string
	Kind          TypeKind
	Abstract      bool
	Visibility    Visibility
	Nested        bool
	Scope         Scope
	Supertypes    []string
	ImplementedBy string
	ProvidedBy    string
	Constructors  []Constructor
	Members       []InjectionPoint
}

// Package returns the package the type is declared in.
func (t TypeInfo) Package() string {
	return PackageOf(t.Name)
}

// IsConcrete reports whether the type is a class that can be instantiated.
func (t TypeInfo) IsConcrete() bool {
	return t.Kind == KindClass && !t.Abstract
}

// InjectConstructors returns every constructor annotated for injection.
func (t TypeInfo) InjectConstructors() []Constructor {
	var out []Constructor
	for _, c := range t.Constructors {
		if c.Inject {
			out = append(out, c)
		}
	}
	return out
}

// AccessibleZeroArgConstructor returns a zero-argument constructor that generated
// code may call. A type without declared constructors has an implicit one with the
// type's own visibility. A nested type's constructor is accessible when it is at
// least as visible as the type itself.
func (t TypeInfo) AccessibleZeroArgConstructor() (Constructor, bool) {
	if len(t.Constructors) == 0 {
		implicit := Constructor{Visibility: t.Visibility}
		return implicit, t.constructorAccessible(implicit)
	}
	for _, c := range t.Constructors {
		if len(c.Params) == 0 && t.constructorAccessible(c) {
			return c, true
		}
	}
	return Constructor{}, false
}

func (t TypeInfo) constructorAccessible(c Constructor) bool {
	if c.Visibility != Private {
		return true
	}
	return t.Nested && c.Visibility >= t.Visibility
}

// InstanceMembers returns the non-static injection points.
func (t TypeInfo) InstanceMembers() []InjectionPoint {
	var out []InjectionPoint
	for _, m := range t.Members {
		if !m.Static {
			out = append(out, m)
		}
	}
	return out
}

// StaticMembers returns the static injection points.
func (t TypeInfo) StaticMembers() []InjectionPoint {
	var out []InjectionPoint
	for _, m := range t.Members {
		if m.Static {
			out = append(out, m)
		}
	}
	return out
}

var constantTypes = map[string]bool{
	"java.lang.String":    true,
	"java.lang.Class":     true,
	"java.lang.Integer":   true,
	"java.lang.Long":      true,
	"java.lang.Short":     true,
	"java.lang.Byte":      true,
	"java.lang.Character": true,
	"java.lang.Boolean":   true,
	"java.lang.Double":    true,
	"java.lang.Float":     true,
	"int":                 true,
	"long":                true,
	"short":               true,
	"byte":                true,
	"char":                true,
	"boolean":             true,
	"double":              true,
	"float":               true,
}

// TypeRegistry holds every declared type plus the host environment's rebind rules.
// It is read-only once loading is complete and may be shared by parallel tree passes.
type TypeRegistry struct {
	types   map[string]TypeInfo
	rebinds map[string]bool
}

// NewTypeRegistry creates an empty TypeRegistry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:   make(map[string]TypeInfo),
		rebinds: make(map[string]bool),
	}
}

// Register adds a type declaration.
func (r *TypeRegistry) Register(info TypeInfo) error {
	name := RawType(info.Name)
	if _, exists := r.types[name]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateType, "type declared twice"), "type", name)
	}
	info.Name = name
	r.types[name] = info
	return nil
}

// Lookup returns the declaration of a type; type arguments are ignored.
func (r *TypeRegistry) Lookup(name string) (TypeInfo, bool) {
	info, ok := r.types[RawType(name)]
	return info, ok
}

// AddRebindRule records that the host environment can substitute the given type.
func (r *TypeRegistry) AddRebindRule(name string) {
	r.rebinds[RawType(name)] = true
}

// HasRebindRule reports whether the host environment declares a rebind rule for name.
func (r *TypeRegistry) HasRebindRule(name string) bool {
	return r.rebinds[RawType(name)]
}

// IsSubtype reports whether sub equals super or transitively extends it.
func (r *TypeRegistry) IsSubtype(sub, super string) bool {
	sub, super = RawType(sub), RawType(super)
	seen := make(map[string]bool)
	queue := []string{sub}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == super {
			return true
		}
		if seen[current] {
			continue
		}
		seen[current] = true
		if info, ok := r.types[current]; ok {
			for _, st := range info.Supertypes {
				queue = append(queue, RawType(st))
			}
		}
	}
	return false
}

// IsConstantType reports whether values of the named type must be bound explicitly:
// strings, primitives and their wrappers, classes and enums.
func (r *TypeRegistry) IsConstantType(name string) bool {
	raw := RawType(name)
	if constantTypes[raw] {
		return true
	}
	info, ok := r.types[raw]
	return ok && (info.Kind == KindEnum || info.Kind == KindPrimitive)
}

// GetterPackage returns the package a getter for key must live in: the package of the
// first non-public type among the key's type and type arguments, or "" when all are public.
func (r *TypeRegistry) GetterPackage(key Key) string {
	names := append([]string{key.RawType()}, key.TypeArguments()...)
	for _, name := range names {
		if pkg := r.TypePackage(name); pkg != "" {
			return pkg
		}
	}
	return ""
}

// TypePackage returns the package of a non-public type, or "" for public or unknown types.
func (r *TypeRegistry) TypePackage(name string) string {
	info, ok := r.Lookup(name)
	if !ok || info.Visibility == Public {
		return ""
	}
	return info.Package()
}

func isProviderKey(k Key) bool {
	raw := k.RawType()
	return raw == ProviderType || raw == AsyncProviderType
}

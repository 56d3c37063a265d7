package config

import (
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the declaration file looked up when no path is given.
const DefaultFileName = "weave.yaml"

// Weavefile is the structure of a weave.yaml declaration file.
type Weavefile struct {
	Version   string                 `yaml:"version"`
	Rebind    []string               `yaml:"rebind"`
	Types     map[string]TypeDTO     `yaml:"types"`
	Modules   map[string]ModuleDTO   `yaml:"modules"`
	Injectors map[string]InjectorDTO `yaml:"injectors"`
}

// TypeDTO declares a type of the application.
type TypeDTO struct {
	Kind          string           `yaml:"kind"`
	Abstract      bool             `yaml:"abstract"`
	Visibility    string           `yaml:"visibility"`
	Nested        bool             `yaml:"nested"`
	Scope         string           `yaml:"scope"`
	Supertypes    []string         `yaml:"supertypes"`
	ImplementedBy string           `yaml:"implementedBy"`
	ProvidedBy    string           `yaml:"providedBy"`
	Constructors  []ConstructorDTO `yaml:"constructors"`
	Members       []MemberDTO      `yaml:"members"`
}

// ConstructorDTO declares a constructor.
type ConstructorDTO struct {
	Inject     bool     `yaml:"inject"`
	Visibility string   `yaml:"visibility"`
	Params     []KeyDTO `yaml:"params"`
}

// MemberDTO declares an injectable field or method.
type MemberDTO struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Params   []KeyDTO `yaml:"params"`
	Optional bool     `yaml:"optional"`
	Static   bool     `yaml:"static"`
}

// ModuleDTO declares a module. A private module opens a child node whose bindings
// are hidden from the parent unless listed in Expose.
type ModuleDTO struct {
	Private                bool         `yaml:"private"`
	Bindings               []yaml.Node  `yaml:"bindings"`
	Install                []InstallDTO `yaml:"install"`
	Expose                 []KeyDTO     `yaml:"expose"`
	RequestInjection       []string     `yaml:"requestInjection"`
	RequestStaticInjection []string     `yaml:"requestStaticInjection"`
}

// InstallDTO installs a module, optionally with arguments. A plain scalar names the module.
type InstallDTO struct {
	Module string            `yaml:"module"`
	Args   map[string]string `yaml:"args"`
}

// UnmarshalYAML accepts a module name or a mapping.
func (i *InstallDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		i.Module = value.Value
		return nil
	}
	type plain InstallDTO
	return value.Decode((*plain)(i))
}

// BindingDTO declares one binding. Exactly one target must be set.
type BindingDTO struct {
	Bind          KeyDTO              `yaml:"bind"`
	To            *KeyDTO             `yaml:"to"`
	ToProvider    *KeyDTO             `yaml:"toProvider"`
	ToConstructor *TargetDTO          `yaml:"toConstructor"`
	Provides      *TargetDTO          `yaml:"provides"`
	Constant      *string             `yaml:"constant"`
	Factory       []FactoryProductDTO `yaml:"factory"`
	Scope         string              `yaml:"scope"`
}

// TargetDTO names a constructor type or a provider method together with its parameters.
type TargetDTO struct {
	Type   string   `yaml:"type"`
	Method string   `yaml:"method"`
	Params []KeyDTO `yaml:"params"`
}

// FactoryProductDTO declares one creation method of an assisted factory.
type FactoryProductDTO struct {
	Method         string   `yaml:"method"`
	Returns        KeyDTO   `yaml:"returns"`
	Implementation string   `yaml:"implementation"`
	Params         []KeyDTO `yaml:"params"`
}

// InjectorDTO declares an injector interface.
type InjectorDTO struct {
	Modules []InstallDTO `yaml:"modules"`
	Methods []MethodDTO  `yaml:"methods"`
}

// MethodDTO declares an injector method: an accessor with Key, or a member
// injection method with InjectMembers.
type MethodDTO struct {
	Name          string  `yaml:"name"`
	Key           *KeyDTO `yaml:"key"`
	InjectMembers string  `yaml:"injectMembers"`
}

// KeyDTO is a key reference. The scalar form is "type" or "@Qualifier type".
type KeyDTO struct {
	Type      string `yaml:"type"`
	Qualifier string `yaml:"qualifier"`
	Optional  bool   `yaml:"optional"`
}

// UnmarshalYAML accepts the scalar and the mapping form.
func (k *KeyDTO) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		type plain KeyDTO
		return value.Decode((*plain)(k))
	}
	s := strings.TrimSpace(value.Value)
	if strings.HasPrefix(s, "@") {
		qualifier, typ, ok := strings.Cut(s, " ")
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "qualifier without type"), "key", s)
		}
		k.Qualifier = qualifier
		s = typ
	}
	k.Type = strings.TrimSpace(s)
	return nil
}

// Key converts the reference to a domain key.
func (k KeyDTO) Key() domain.Key {
	return domain.NewQualifiedKey(k.Type, k.Qualifier)
}

// Param converts the reference to a parameter.
func (k KeyDTO) Param() domain.Param {
	return domain.Param{Key: k.Key(), Optional: k.Optional}
}

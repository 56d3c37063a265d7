// Package config loads binding declarations from weave.yaml.
package config

import (
	"os"
	"slices"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the declaration file at path and builds one unresolved tree per injector.
// Injectors are ordered by name.
func (l *Loader) Load(path string) (*domain.Workspace, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read declaration file"), "path", path)
	}
	return l.Parse(path, data)
}

// Parse builds a workspace from the contents of a declaration file. path is only
// used to describe where declarations come from.
func (l *Loader) Parse(path string, data []byte) (*domain.Workspace, error) {
	var wf Weavefile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse declaration file"), "path", path)
	}

	types, err := buildTypes(&wf)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	ws := &domain.Workspace{Path: path, Source: data, Types: types}

	names := make([]string, 0, len(wf.Injectors))
	for name := range wf.Injectors {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		b := &treeBuilder{
			file:       path,
			types:      types,
			modules:    wf.Modules,
			logger:     l.Logger,
			configured: make(map[*domain.Node]map[string]bool),
		}
		tree, err := b.build(name, wf.Injectors[name])
		if err != nil {
			return nil, zerr.With(err, "injector", name)
		}
		ws.Injectors = append(ws.Injectors, tree)
	}

	if len(ws.Injectors) == 0 {
		l.Logger.Warn(path + " declares no injectors")
	}
	return ws, nil
}

func buildTypes(wf *Weavefile) (*domain.TypeRegistry, error) {
	registry := domain.NewTypeRegistry()
	for _, rule := range wf.Rebind {
		registry.AddRebindRule(strings.TrimSpace(rule))
	}

	names := make([]string, 0, len(wf.Types))
	for name := range wf.Types {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		info, err := typeInfo(name, wf.Types[name])
		if err != nil {
			return nil, zerr.With(err, "type", name)
		}
		if err := registry.Register(info); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func typeInfo(name string, dto TypeDTO) (domain.TypeInfo, error) {
	visibility, err := domain.ParseVisibility(dto.Visibility)
	if err != nil {
		return domain.TypeInfo{}, err
	}
	scope, err := domain.ParseScope(dto.Scope)
	if err != nil {
		return domain.TypeInfo{}, err
	}

	kind := domain.TypeKind(strings.ToLower(dto.Kind))
	switch kind {
	case "":
		kind = domain.KindClass
	case domain.KindClass, domain.KindInterface, domain.KindEnum, domain.KindPrimitive:
	default:
		return domain.TypeInfo{}, zerr.With(zerr.Wrap(domain.ErrInvalidDeclaration, "unknown type kind"), "kind", dto.Kind)
	}

	info := domain.TypeInfo{
		Name:          name,
		Kind:          kind,
		Abstract:      dto.Abstract,
		Visibility:    visibility,
		Nested:        dto.Nested,
		Scope:         scope,
		Supertypes:    dto.Supertypes,
		ImplementedBy: dto.ImplementedBy,
		ProvidedBy:    dto.ProvidedBy,
	}

	for _, c := range dto.Constructors {
		v, err := domain.ParseVisibility(c.Visibility)
		if err != nil {
			return domain.TypeInfo{}, err
		}
		info.Constructors = append(info.Constructors, domain.Constructor{
			Inject:     c.Inject,
			Visibility: v,
			Params:     params(c.Params),
		})
	}

	for _, m := range dto.Members {
		point, err := injectionPoint(name, m)
		if err != nil {
			return domain.TypeInfo{}, err
		}
		info.Members = append(info.Members, point)
	}
	return info, nil
}

func injectionPoint(owner string, m MemberDTO) (domain.InjectionPoint, error) {
	kind := domain.MemberKind(strings.ToLower(m.Kind))
	switch kind {
	case "", domain.MemberField:
		kind = domain.MemberField
		if len(m.Params) != 1 {
			err := zerr.Wrap(domain.ErrInvalidDeclaration, "an injected field needs exactly one key")
			return domain.InjectionPoint{}, zerr.With(err, "member", m.Name)
		}
	case domain.MemberMethod:
	default:
		err := zerr.Wrap(domain.ErrInvalidDeclaration, "unknown member kind")
		return domain.InjectionPoint{}, zerr.With(err, "member", m.Name)
	}
	return domain.InjectionPoint{
		Owner:    owner,
		Name:     m.Name,
		Kind:     kind,
		Params:   params(m.Params),
		Optional: m.Optional,
		Static:   m.Static,
	}, nil
}

func params(keys []KeyDTO) []domain.Param {
	if len(keys) == 0 {
		return nil
	}
	out := make([]domain.Param, len(keys))
	for i, k := range keys {
		out[i] = k.Param()
	}
	return out
}

// Package implicit synthesizes bindings for keys that have no explicit declaration.
package implicit

import (
	"fmt"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
)

// Creator synthesizes implicit bindings from type declarations.
// A Creator belongs to a single tree pass.
type Creator struct {
	types ports.TypeInspector
}

// NewCreator creates a Creator backed by the given type declarations.
func NewCreator(types ports.TypeInspector) *Creator {
	return &Creator{types: types}
}

// Create returns the implicit binding for key and the scope declared on its type.
// The rules are tried in a fixed order and the first match wins. When no binding
// can be synthesized the error is a *domain.CreationError.
func (c *Creator) Create(key domain.Key) (domain.Binding, domain.Scope, error) {
	ctx := domain.ImplicitContext(key)
	raw := key.RawType()

	switch raw {
	case domain.ProviderType, domain.AsyncProviderType:
		target, ok := key.ProvidedKey()
		if !ok {
			return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key, "%s must have exactly one type argument", key)
		}
		async := raw == domain.AsyncProviderType
		return domain.NewImplicitProviderBinding(key, target, async, ctx, c.types.GetterPackage(key)), domain.NoScope, nil
	}

	if c.types.IsConstantType(raw) {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"no binding found for %s; constants must be bound explicitly", key)
	}

	if key.IsQualified() {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"no binding found for %s; implicit bindings are never created for qualified keys", key)
	}

	info, declared := c.types.Lookup(raw)

	if declared && info.ImplementedBy != "" {
		return c.implementedBy(key, info, ctx)
	}

	if declared && info.ProvidedBy != "" {
		return c.providedBy(key, info, ctx)
	}

	if declared && info.IsConcrete() {
		ctors := info.InjectConstructors()
		if len(ctors) > 1 {
			return nil, domain.NoScope, fail(domain.DiagAmbiguous, key,
				"%s has %d constructors annotated with @Inject; exactly one is allowed", raw, len(ctors))
		}
		if len(ctors) == 1 {
			pkg := c.types.GetterPackage(key)
			if ctors[0].Visibility != domain.Public {
				pkg = info.Package()
			}
			b := domain.NewConstructorBinding(key, key.TypeName(), ctors[0].Params, info.InstanceMembers(), ctx, pkg)
			return b, info.Scope, nil
		}
	}

	if service, ok := c.remoteService(raw); ok {
		return domain.NewRemoteServiceProxyBinding(key, service, ctx, c.types.GetterPackage(key)), domain.NoScope, nil
	}

	if c.platformCreatable(raw, info, declared) {
		pkg := c.types.GetterPackage(key)
		if declared && !c.types.HasRebindRule(raw) {
			if ctor, _ := info.AccessibleZeroArgConstructor(); ctor.Visibility != domain.Public {
				pkg = info.Package()
			}
		}
		var members []domain.InjectionPoint
		if declared {
			members = info.InstanceMembers()
		}
		return domain.NewPlatformCreateBinding(key, key.TypeName(), members, ctx, pkg), info.Scope, nil
	}

	if !declared {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"no binding found for %s; the type is not declared and has no rebind rule", key)
	}
	return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
		"no binding found for %s; it has no injectable constructor and cannot be created", key)
}

func (c *Creator) implementedBy(key domain.Key, info domain.TypeInfo, ctx domain.Context) (domain.Binding, domain.Scope, error) {
	impl := domain.RawType(info.ImplementedBy)
	if impl == info.Name {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"@ImplementedBy on %s points to the type itself", info.Name)
	}
	if !c.types.IsSubtype(impl, info.Name) {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"@ImplementedBy on %s names %s, which is not a subtype", info.Name, impl)
	}
	b := domain.NewLinkedBinding(key, domain.NewKey(info.ImplementedBy), ctx, c.types.GetterPackage(key))
	return b, info.Scope, nil
}

func (c *Creator) providedBy(key domain.Key, info domain.TypeInfo, ctx domain.Context) (domain.Binding, domain.Scope, error) {
	provider := domain.RawType(info.ProvidedBy)
	if provider == info.Name {
		return nil, domain.NoScope, fail(domain.DiagUnsatisfiable, key,
			"@ProvidedBy on %s points to the type itself", info.Name)
	}
	pkg := c.types.GetterPackage(key)
	if providerPkg := c.types.TypePackage(provider); providerPkg != "" {
		pkg = providerPkg
	}
	b := domain.NewProviderKeyBinding(key, domain.NewKey(info.ProvidedBy), ctx, pkg)
	return b, info.Scope, nil
}

// remoteService reports the synchronous service behind an asynchronous service interface
// named "<Service>Async".
func (c *Creator) remoteService(raw string) (string, bool) {
	service, ok := strings.CutSuffix(raw, "Async")
	if !ok || service == "" {
		return "", false
	}
	info, declared := c.types.Lookup(service)
	if !declared || info.Kind != domain.KindInterface {
		return "", false
	}
	return service, c.types.IsSubtype(service, domain.RemoteServiceType)
}

func (c *Creator) platformCreatable(raw string, info domain.TypeInfo, declared bool) bool {
	if c.types.HasRebindRule(raw) {
		return true
	}
	if !declared || !info.IsConcrete() {
		return false
	}
	_, ok := info.AccessibleZeroArgConstructor()
	return ok
}

func fail(kind domain.DiagnosticKind, key domain.Key, format string, args ...any) *domain.CreationError {
	return domain.NewCreationError(kind, key, fmt.Sprintf(format, args...))
}

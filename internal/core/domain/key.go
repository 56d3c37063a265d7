package domain

import "strings"

const (
	// ProviderType is the raw type of the synchronous provider wrapper.
	ProviderType = "com.google.inject.Provider"
	// AsyncProviderType is the raw type of the asynchronous provider wrapper.
	AsyncProviderType = "com.google.gwt.inject.client.AsyncProvider"
	// RemoteServiceType is the marker interface extended by remote service definitions.
	RemoteServiceType = "com.google.gwt.user.client.rpc.RemoteService"
	// AssistedQualifier marks constructor parameters supplied by a factory caller.
	AssistedQualifier = "@Assisted"

	ginjectorType = "<ginjector>"
)

// Ginjector is the synthetic root demand. It is not a real type: edges leaving it
// mark keys that the generated injector itself may need.
var Ginjector = Key{Type: NewInternedString(ginjectorType)}

// Key identifies an injectable value by type and optional qualifier.
// Keys are comparable and can be used directly as map keys.
type Key struct {
	Type      InternedString
	Qualifier InternedString
}

// NewKey creates an unqualified key for the given type descriptor.
func NewKey(typeName string) Key {
	return Key{Type: NewInternedString(strings.TrimSpace(typeName))}
}

// NewQualifiedKey creates a key for the given type carrying a qualifier annotation.
func NewQualifiedKey(typeName, qualifier string) Key {
	k := NewKey(typeName)
	if q := strings.TrimSpace(qualifier); q != "" {
		k.Qualifier = NewInternedString(q)
	}
	return k
}

// IsGinjector reports whether k is the synthetic root demand.
func (k Key) IsGinjector() bool {
	return k == Ginjector
}

// IsQualified reports whether k carries a qualifier.
func (k Key) IsQualified() bool {
	return k.Qualifier.String() != ""
}

// TypeName returns the full type descriptor, including type arguments.
func (k Key) TypeName() string {
	return k.Type.String()
}

// RawType returns the type descriptor without type arguments.
func (k Key) RawType() string {
	return RawType(k.Type.String())
}

// TypeArguments returns the top-level type arguments of the key's type.
func (k Key) TypeArguments() []string {
	return TypeArguments(k.Type.String())
}

// ProvidedKey returns the key wrapped by a Provider or AsyncProvider key.
// The qualifier is carried over to the wrapped key.
func (k Key) ProvidedKey() (Key, bool) {
	raw := k.RawType()
	if raw != ProviderType && raw != AsyncProviderType {
		return Key{}, false
	}
	args := k.TypeArguments()
	if len(args) != 1 {
		return Key{}, false
	}
	return Key{Type: NewInternedString(args[0]), Qualifier: k.Qualifier}, true
}

// String renders the key as "@Qualifier type" for diagnostics.
func (k Key) String() string {
	if k.IsGinjector() {
		return "Ginjector"
	}
	if k.IsQualified() {
		return k.Qualifier.String() + " " + k.Type.String()
	}
	return k.Type.String()
}

// RawType strips generic arguments from a type descriptor.
func RawType(typeName string) string {
	if i := strings.IndexByte(typeName, '<'); i >= 0 {
		return strings.TrimSpace(typeName[:i])
	}
	return strings.TrimSpace(typeName)
}

// TypeArguments splits the top-level generic arguments of a type descriptor.
func TypeArguments(typeName string) []string {
	start := strings.IndexByte(typeName, '<')
	end := strings.LastIndexByte(typeName, '>')
	if start < 0 || end <= start {
		return nil
	}

	var args []string
	depth := 0
	last := start + 1
	for i := start + 1; i < end; i++ {
		switch typeName[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(typeName[last:i]))
				last = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(typeName[last:end]))
}

// ProviderOf returns the Provider<T> key for k.
func ProviderOf(k Key) Key {
	return Key{Type: NewInternedString(ProviderType + "<" + k.TypeName() + ">"), Qualifier: k.Qualifier}
}

// SimpleName returns the last dotted segment of a type name.
func SimpleName(typeName string) string {
	raw := RawType(typeName)
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// PackageOf returns everything before the last dotted segment of a type name.
// Nested types are expected to be written with '$' so the package stays intact.
func PackageOf(typeName string) string {
	raw := RawType(typeName)
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		return raw[:i]
	}
	return ""
}

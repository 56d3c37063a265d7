package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Scope is the declared lifetime of a key within a node.
type Scope int

// Scopes.
const (
	NoScope Scope = iota
	Singleton
	EagerSingleton
)

// ParseScope converts a declaration keyword to a Scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unscoped":
		return NoScope, nil
	case "singleton":
		return Singleton, nil
	case "eager", "eager-singleton", "eagersingleton":
		return EagerSingleton, nil
	default:
		return NoScope, zerr.With(zerr.Wrap(ErrInvalidDeclaration, "unknown scope"), "scope", s)
	}
}

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case EagerSingleton:
		return "eager-singleton"
	default:
		return "none"
	}
}

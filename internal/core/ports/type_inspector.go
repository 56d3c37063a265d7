package ports

import "go.trai.ch/weave/internal/core/domain"

// TypeInspector answers questions about declared types.
//
//go:generate go run go.uber.org/mock/mockgen -source=type_inspector.go -destination=mocks/mock_type_inspector.go -package=mocks
type TypeInspector interface {
	Lookup(name string) (domain.TypeInfo, bool)
	IsSubtype(sub, super string) bool
	IsConstantType(name string) bool
	HasRebindRule(name string) bool
	GetterPackage(key domain.Key) string
	TypePackage(name string) string
}

package ports

import "go.trai.ch/weave/internal/core/domain"

// ConfigLoader defines the interface for loading binding declarations.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the declaration file at path and returns the workspace with one
	// unresolved tree per injector interface.
	Load(path string) (*domain.Workspace, error)
}

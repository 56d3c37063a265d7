package ports

import "go.trai.ch/weave/internal/core/domain"

// Hasher defines the interface for computing fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeInputHash fingerprints everything that can influence the tree of one injector.
	ComputeInputHash(ws *domain.Workspace, injector string) (string, error)

	// ComputePlanHash fingerprints an emission plan.
	ComputePlanHash(plan *domain.EmissionPlan) (string, error)
}

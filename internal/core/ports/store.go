package ports

import "go.trai.ch/weave/internal/core/domain"

// GenerationStore defines the interface for storing and retrieving generation records.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type GenerationStore interface {
	// Get retrieves the record for an injector.
	// Returns nil, nil if not found.
	Get(injector string) (*domain.GenerationRecord, error)

	// Put stores the record.
	Put(record domain.GenerationRecord) error
}

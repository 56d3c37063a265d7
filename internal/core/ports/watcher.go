package ports

import (
	"context"
	"iter"
)

// Watcher reports changes to declaration files.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given files. Changes stop being reported when ctx is done.
	Start(ctx context.Context, paths ...string) error
	// Stop releases all resources.
	Stop() error
	// Changes yields the changed paths, coalesced over a short window.
	// The sequence ends when the watcher stops.
	Changes() iter.Seq[[]string]
}

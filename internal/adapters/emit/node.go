package emit

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weave/internal/core/ports"
)

// NodeID is the unique identifier for the code writer Graft node.
const NodeID graft.ID = "adapter.emit"

func init() {
	graft.Register(graft.Node[ports.CodeWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CodeWriter, error) {
			return NewWriter(), nil
		},
	})
}

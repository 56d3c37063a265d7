package generator

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weave/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weave/internal/adapters/emit"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weave/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weave/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weave/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/weave/internal/core/ports"
)

// NodeID is the unique identifier for the generator Graft node.
const NodeID graft.ID = "engine.generator"

func init() {
	graft.Register(graft.Node[*Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			emit.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Generator, error) {
			writer, err := graft.Dep[ports.CodeWriter](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.GenerationStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(writer, store, hasher, tracer, log), nil
		},
	})
}

package argo

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the Argo emitter Graft node.
const NodeID graft.ID = "engine.argo"

func init() {
	graft.Register(graft.Node[*Emitter]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (*Emitter, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEmitter(log), nil
		},
	})
}

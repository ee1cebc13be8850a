package config

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/logger"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the component loader Graft node.
const NodeID graft.ID = "adapter.component_loader"

func init() {
	graft.Register(graft.Node[ports.ComponentLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ComponentLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}

package compiler

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/argo"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/vertex"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the compiler Graft node.
const NodeID graft.ID = "engine.compiler"

func init() {
	graft.Register(graft.Node[ports.Compiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			argo.NodeID,
			vertex.NodeID,
		},
		Run: func(ctx context.Context) (ports.Compiler, error) {
			argoEmitter, err := graft.Dep[*argo.Emitter](ctx)
			if err != nil {
				return nil, err
			}

			vertexEmitter, err := graft.Dep[*vertex.Emitter](ctx)
			if err != nil {
				return nil, err
			}

			return New(argoEmitter, vertexEmitter), nil
		},
	})
}

package logger

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the graft node that provides ports.Logger.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			return New(), nil
		},
	})
}

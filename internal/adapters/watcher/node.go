package watcher

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the graft node that provides ports.Watcher.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Watcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWatcher(log), nil
		},
	})
}

package telemetry

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// TracerNodeID is the graft node that provides ports.Tracer.
const TracerNodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer(InstrumentationName), nil
		},
	})
}

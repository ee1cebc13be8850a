package output

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the graft node that provides ports.DocumentWriter.
const NodeID graft.ID = "adapter.document_writer"

func init() {
	graft.Register(graft.Node[ports.DocumentWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentWriter, error) {
			return NewWriter(), nil
		},
	})
}

package ports

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
)

// DocumentWriter defines the interface for persisting compiled documents.
//
//go:generate mockgen -source=document_writer.go -destination=mocks/mock_document_writer.go -package=mocks
type DocumentWriter interface {
	// Write encodes doc in the given format and stores it at dest.
	// dest is domain.StdoutPath, a file path, or an s3:// URL.
	Write(ctx context.Context, dest string, format domain.Format, doc any) error
}

package ports

import (
	"context"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
)

// ComponentLoader defines the interface for loading component files.
//
//go:generate mockgen -source=component_loader.go -destination=mocks/mock_component_loader.go -package=mocks
type ComponentLoader interface {
	// Load reads the component at path and dereferences every nested componentRef,
	// so that each task's ComponentRef.Spec is populated.
	Load(ctx context.Context, path string) (*domain.ComponentSpec, error)

	// LoadArguments reads a flat name to value mapping of pipeline arguments.
	LoadArguments(path string) (map[string]string, error)
}

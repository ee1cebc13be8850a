package ports

import "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"

//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks

// Compiler turns a fully loaded component into a target document.
type Compiler interface {
	Compile(component *domain.ComponentSpec, opts domain.CompileOptions) (any, error)
}

// Emitter renders a validated root component for a single target.
// arguments are the pipeline arguments already resolved against the root inputs.
type Emitter interface {
	Target() domain.Target
	Emit(root *domain.ComponentSpec, arguments map[string]string, opts domain.CompileOptions) (any, error)
}

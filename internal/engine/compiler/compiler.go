// Package compiler dispatches a loaded pipeline to the emitter of the requested target.
package compiler

import (
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// Compiler implements ports.Compiler over a set of target emitters.
type Compiler struct {
	emitters map[domain.Target]ports.Emitter
}

// New creates a Compiler. A later emitter replaces an earlier one for the same target.
func New(emitters ...ports.Emitter) *Compiler {
	c := &Compiler{emitters: make(map[domain.Target]ports.Emitter, len(emitters))}
	for _, e := range emitters {
		c.emitters[e.Target()] = e
	}
	return c
}

// Compile resolves the pipeline arguments against the root inputs and emits
// the document for opts.Target. An empty target selects domain.TargetArgo.
func (c *Compiler) Compile(component *domain.ComponentSpec, opts domain.CompileOptions) (any, error) {
	if opts.Target == "" {
		opts.Target = domain.TargetArgo
	}
	emitter, ok := c.emitters[opts.Target]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownTarget, "target", string(opts.Target))
	}

	arguments, err := domain.ResolvePipelineArguments(component, opts.Arguments)
	if err != nil {
		return nil, err
	}

	return emitter.Emit(component, arguments, opts)
}

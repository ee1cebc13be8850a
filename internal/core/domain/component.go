// Package domain contains the pipeline IR: components, tasks, arguments and
// command-line placeholders, plus the validation that every compiler target relies on.
package domain

import "go.trai.ch/zerr"

// ComponentSpec describes a reusable unit of computation.
// It is treated as immutable once loaded.
type ComponentSpec struct {
	Name           string
	Description    string
	Inputs         []InputSpec
	Outputs        []OutputSpec
	Implementation Implementation
}

// InputSpec declares a named component input.
type InputSpec struct {
	Name        string
	Description string
	Type        TypeSpec
	Default     *string
	Optional    bool
}

// OutputSpec declares a named component output.
type OutputSpec struct {
	Name        string
	Description string
	Type        TypeSpec
}

// TypeSpec is either a bare TypeName or a StructuredType.
// A nil TypeSpec means the input or output is untyped.
type TypeSpec interface {
	isTypeSpec()
}

// TypeName is a bare type name such as "String" or "Model".
type TypeName string

// StructuredType is a parameterised type, e.g. {"GCSPath": {"data_type": "CSV"}}.
type StructuredType map[string]any

func (TypeName) isTypeSpec()       {}
func (StructuredType) isTypeSpec() {}

// Implementation is either a *ContainerSpec or a *GraphSpec.
type Implementation interface {
	isImplementation()
}

// ContainerSpec is an executable container implementation.
type ContainerSpec struct {
	Image   string
	Command []Placeholder
	Args    []Placeholder
	Env     map[string]Placeholder
}

func (*ContainerSpec) isImplementation() {}
func (*GraphSpec) isImplementation()     {}

// ComponentReference points at the component a task runs.
// Spec must be populated before compilation; dereferencing URLs is the loader's job.
type ComponentReference struct {
	Name   string
	Digest string
	Tag    string
	URL    string
	Spec   *ComponentSpec
}

// Input returns the input with the given name.
func (c *ComponentSpec) Input(name string) (InputSpec, bool) {
	for _, in := range c.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// Output returns the output with the given name.
func (c *ComponentSpec) Output(name string) (OutputSpec, bool) {
	for _, out := range c.Outputs {
		if out.Name == name {
			return out, true
		}
	}
	return OutputSpec{}, false
}

// Container returns the container implementation, if any.
func (c *ComponentSpec) Container() (*ContainerSpec, bool) {
	impl, ok := c.Implementation.(*ContainerSpec)
	return impl, ok && impl != nil
}

// Graph returns the graph implementation, if any.
func (c *ComponentSpec) Graph() (*GraphSpec, bool) {
	impl, ok := c.Implementation.(*GraphSpec)
	return impl, ok && impl != nil
}

// Validate checks that input names and output names are unique.
func (c *ComponentSpec) Validate() error {
	seen := make(map[string]struct{}, len(c.Inputs))
	for _, in := range c.Inputs {
		if _, dup := seen[in.Name]; dup {
			return zerr.With(ErrDuplicateInputName, "input", in.Name)
		}
		seen[in.Name] = struct{}{}
	}

	seen = make(map[string]struct{}, len(c.Outputs))
	for _, out := range c.Outputs {
		if _, dup := seen[out.Name]; dup {
			return zerr.With(ErrDuplicateOutputName, "output", out.Name)
		}
		seen[out.Name] = struct{}{}
	}

	switch c.Implementation.(type) {
	case *ContainerSpec, *GraphSpec:
		return nil
	default:
		return zerr.With(ErrUnknownImplementation, "component", c.Name)
	}
}

// DisplayName returns the component name, or fallback when it is unnamed.
func (c *ComponentSpec) DisplayName(fallback string) string {
	if c.Name != "" {
		return c.Name
	}
	return fallback
}

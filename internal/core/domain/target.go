package domain

import "go.trai.ch/zerr"

// Target names a compilation output format.
type Target string

const (
	// TargetArgo emits a Kubernetes-native Argo Workflow.
	TargetArgo Target = "argo"
	// TargetVertex emits a managed-cloud Vertex AI PipelineJob.
	TargetVertex Target = "vertex"
)

// Targets lists every supported target.
func Targets() []Target {
	return []Target{TargetArgo, TargetVertex}
}

// ParseTarget validates a target name.
func ParseTarget(name string) (Target, error) {
	for _, t := range Targets() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", zerr.With(ErrUnknownTarget, "target", name)
}

// CompileOptions configures a single compilation.
type CompileOptions struct {
	Target Target
	// Arguments are the top-level pipeline argument overrides.
	Arguments map[string]string
	// Name overrides the pipeline name taken from the root component.
	Name string
	// OutputDirectory is the cloud storage root for pipeline outputs (vertex only).
	OutputDirectory string
}

// PipelineName returns the name override, the component name, or DefaultPipelineName.
func (o CompileOptions) PipelineName(component *ComponentSpec) string {
	if o.Name != "" {
		return o.Name
	}
	return component.DisplayName(DefaultPipelineName)
}

// Format is the text encoding of a compiled document.
type Format string

const (
	// FormatYAML renders documents as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON renders documents as indented JSON.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatYAML, FormatJSON:
		return Format(name), nil
	default:
		return "", zerr.With(ErrUnsupportedFormat, "format", name)
	}
}

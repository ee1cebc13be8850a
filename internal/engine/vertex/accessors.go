package vertex

import (
	"strings"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/cmdline"
)

type accessors struct{}

func (accessors) InputValue(name string) string { return "{{$.inputs.parameters['" + name + "']}}" }
func (accessors) InputPath(name string) string  { return "{{$.inputs.artifacts['" + name + "'].path}}" }
func (accessors) OutputPath(name string) string { return "{{$.outputs.artifacts['" + name + "'].path}}" }

func (accessors) ConcatMode() cmdline.ConcatMode { return cmdline.ElementwiseConcat }

// schemaTitle maps a component type onto a system artifact schema.
func schemaTitle(t domain.TypeSpec) string {
	name, _ := t.(domain.TypeName)
	switch strings.ToLower(string(name)) {
	case "model":
		return "system.Model"
	case "dataset", "csv", "tsv", "jsonarray":
		return "system.Dataset"
	case "metrics":
		return "system.Metrics"
	default:
		return "system.Artifact"
	}
}

func artifactSpec(t domain.TypeSpec, optional bool) ArtifactSpec {
	return ArtifactSpec{
		ArtifactType: ArtifactType{SchemaTitle: schemaTitle(t), SchemaVersion: ArtifactSchemaVersion},
		IsOptional:   optional,
	}
}

func constant(value string) ParameterArgument {
	return ParameterArgument{RuntimeValue: &RuntimeValue{ConstantValue: Value{StringValue: value}}}
}

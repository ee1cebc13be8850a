package argo

import (
	"regexp"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/cmdline"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/naming"
	"k8s.io/apimachinery/pkg/util/sets"
)

var taskOutputRef = regexp.MustCompile(`\{\{tasks\.([^.]+)\.outputs\.`)

// ioNames maps the input and output names of a component onto legal
// parameter and artifact names. Inputs and outputs are separate scopes.
type ioNames struct {
	inputs  map[string]string
	outputs map[string]string
}

func newIONames(component *domain.ComponentSpec) ioNames {
	names := ioNames{
		inputs:  make(map[string]string, len(component.Inputs)),
		outputs: make(map[string]string, len(component.Outputs)),
	}
	in := naming.NewAllocator(naming.SanitizeParameterName, 0)
	for _, spec := range component.Inputs {
		names.inputs[spec.Name] = in.Unique(spec.Name)
	}
	out := naming.NewAllocator(naming.SanitizeParameterName, 0)
	for _, spec := range component.Outputs {
		names.outputs[spec.Name] = out.Unique(spec.Name)
	}
	return names
}

func (n ioNames) input(name string) string {
	if s, ok := n.inputs[name]; ok {
		return s
	}
	return naming.SanitizeParameterName(name)
}

func (n ioNames) output(name string) string {
	if s, ok := n.outputs[name]; ok {
		return s
	}
	return naming.SanitizeParameterName(name)
}

type accessors struct {
	names ioNames
}

func (a accessors) InputValue(name string) string {
	return "{{inputs.parameters." + a.names.input(name) + "}}"
}

func (a accessors) InputPath(name string) string {
	return "{{inputs.artifacts." + a.names.input(name) + ".path}}"
}

func (a accessors) OutputPath(name string) string {
	return "{{outputs.artifacts." + a.names.output(name) + ".path}}"
}

func (accessors) ConcatMode() cmdline.ConcatMode { return cmdline.JoinConcat }

func inputArtifactPath(name string) string  { return "/tmp/inputs/" + name + "/data" }
func outputArtifactPath(name string) string { return "/tmp/outputs/" + name + "/data" }

func graphParameter(name string) string { return "{{inputs.parameters." + name + "}}" }
func graphArtifact(name string) string  { return "{{inputs.artifacts." + name + "}}" }

func taskArtifact(task, output string) string {
	return "{{tasks." + task + ".outputs.artifacts." + output + "}}"
}

func taskParameter(task, output string) string {
	return "{{tasks." + task + ".outputs.parameters." + output + "}}"
}

// dependencies scans resolved argument values for references to the outputs
// of tasks that exist in the DAG. Other matches, such as literal text, are ignored.
func dependencies(args *Arguments, exists func(string) bool) []string {
	if args == nil {
		return nil
	}
	deps := sets.New[string]()
	scan := func(s string) {
		for _, m := range taskOutputRef.FindAllStringSubmatch(s, -1) {
			if exists(m[1]) {
				deps.Insert(m[1])
			}
		}
	}
	for _, p := range args.Parameters {
		if p.Value != nil {
			scan(*p.Value)
		}
	}
	for _, a := range args.Artifacts {
		scan(a.From)
	}
	if deps.Len() == 0 {
		return nil
	}
	return sets.List(deps)
}

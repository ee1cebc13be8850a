package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// ResolvePipelineArguments applies top-level argument overrides to the root
// component's inputs. Unsupplied inputs fall back to their defaults; an
// optional input with neither is left out of the result.
func ResolvePipelineArguments(component *ComponentSpec, args map[string]string) (map[string]string, error) {
	for _, name := range slices.Sorted(maps.Keys(args)) {
		if _, ok := component.Input(name); !ok {
			return nil, zerr.With(ErrUnknownPipelineArgument, "argument", name)
		}
	}

	resolved := make(map[string]string, len(component.Inputs))
	for _, in := range component.Inputs {
		if value, ok := args[in.Name]; ok {
			resolved[in.Name] = value
			continue
		}
		if in.Default != nil {
			resolved[in.Name] = *in.Default
			continue
		}
		if !in.Optional {
			return nil, zerr.With(ErrMissingRequiredArgument, "input", in.Name)
		}
	}
	return resolved, nil
}

// WrapContainerAsGraph returns a graph component with the same interface as
// component, running it as its only task. Graph components are returned as is.
func WrapContainerAsGraph(component *ComponentSpec) *ComponentSpec {
	if _, ok := component.Graph(); ok {
		return component
	}

	taskID := component.DisplayName("component")
	arguments := make(map[string]Argument, len(component.Inputs))
	for _, in := range component.Inputs {
		arguments[in.Name] = GraphInput{InputName: in.Name}
	}
	outputValues := make(map[string]TaskOutput, len(component.Outputs))
	for _, out := range component.Outputs {
		outputValues[out.Name] = TaskOutput{TaskID: taskID, OutputName: out.Name}
	}

	return &ComponentSpec{
		Name:        component.Name,
		Description: component.Description,
		Inputs:      slices.Clone(component.Inputs),
		Outputs:     slices.Clone(component.Outputs),
		Implementation: &GraphSpec{
			Tasks: map[string]TaskSpec{
				taskID: {
					ComponentRef: ComponentReference{Name: component.Name, Spec: component},
					Arguments:    arguments,
				},
			},
			OutputValues: outputValues,
		},
	}
}

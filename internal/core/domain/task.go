package domain

// TaskSpec binds a component into a graph with concrete arguments.
// Arguments is keyed by input name, so an input is bound at most once.
type TaskSpec struct {
	ComponentRef ComponentReference
	Arguments    map[string]Argument
}

// GraphSpec is a graph implementation: tasks keyed by task id plus the
// task outputs that are exposed as the graph component's outputs.
type GraphSpec struct {
	Tasks        map[string]TaskSpec
	OutputValues map[string]TaskOutput
}

// Argument is the value bound to a task input.
// Implementations: Literal, GraphInput and TaskOutput.
type Argument interface {
	isArgument()
}

// GraphInput references an input of the enclosing graph component.
type GraphInput struct {
	InputName string
}

// TaskOutput references an output of a sibling task in the same graph.
type TaskOutput struct {
	TaskID     string
	OutputName string
}

func (Literal) isArgument()    {}
func (GraphInput) isArgument() {}
func (TaskOutput) isArgument() {}

// Component returns the referenced component spec, or nil when it has not been loaded.
func (t *TaskSpec) Component() *ComponentSpec {
	return t.ComponentRef.Spec
}

// TaskBindings returns the arguments a task effectively provides: the explicit
// arguments plus literal defaults for every unbound input that declares one.
// The task's own argument map is never modified.
func TaskBindings(task *TaskSpec, component *ComponentSpec) map[string]Argument {
	bindings := make(map[string]Argument, len(component.Inputs))
	for name, arg := range task.Arguments {
		bindings[name] = arg
	}
	for _, in := range component.Inputs {
		if _, ok := bindings[in.Name]; ok {
			continue
		}
		if in.Default != nil {
			bindings[in.Name] = Literal(*in.Default)
		}
	}
	return bindings
}

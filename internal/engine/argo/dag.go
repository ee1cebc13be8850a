package argo

import (
	"slices"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/naming"
	"go.trai.ch/zerr"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
)

// child is a compiled task of a graph, before its arguments are wired.
type child struct {
	path      []string
	component *domain.ComponentSpec
	bindings  map[string]domain.Argument
	info      *templateInfo
}

// dagBuilder assembles the DAG template of one graph component. Task names
// live in their own scope.
type dagBuilder struct {
	c         *compilation
	component *domain.ComponentSpec
	graph     *domain.GraphSpec
	provided  sets.Set[string]
	io        ioNames
	tasks     *naming.Allocator
	names     map[string]string
	children  map[string]*child
	// valueInputs and artifactInputs are the graph inputs children consume
	// by value and by path.
	valueInputs    sets.Set[string]
	artifactInputs sets.Set[string]
	// pending holds converter tasks created while wiring the current task.
	pending []DAGTask
}

// compileGraph compiles every task of a graph component and registers its
// DAG template. provided holds the graph inputs the caller will supply.
func (c *compilation) compileGraph(
	component *domain.ComponentSpec,
	provided sets.Set[string],
	path []string,
	prefix string,
) (*templateInfo, error) {
	order, err := domain.ValidateGraph(component)
	if err != nil {
		return nil, err
	}
	graph, _ := component.Graph()

	b := &dagBuilder{
		c:              c,
		component:      component,
		graph:          graph,
		provided:       provided,
		io:             newIONames(component),
		tasks:          naming.NewAllocator(naming.SanitizeDNSLabel, naming.DNSLabelMaxLength),
		names:          make(map[string]string, len(order)),
		children:       make(map[string]*child, len(order)),
		valueInputs:    sets.New[string](),
		artifactInputs: sets.New[string](),
	}
	for _, id := range order {
		b.names[id] = b.tasks.Unique(id)
	}

	for _, id := range order {
		ch, err := b.compileChild(id, append(slices.Clone(path), id))
		if err != nil {
			return nil, domain.WrapTaskError(id, err)
		}
		b.children[id] = ch
		for n, arg := range ch.bindings {
			in, ok := arg.(domain.GraphInput)
			if !ok {
				continue
			}
			if ch.info.params.Has(n) {
				b.valueInputs.Insert(in.InputName)
			}
			if ch.info.artifacts.Has(n) {
				b.artifactInputs.Insert(in.InputName)
			}
		}
	}

	tasks := make([]DAGTask, 0, len(order))
	for _, id := range order {
		task, err := b.wire(id, b.children[id])
		if err != nil {
			return nil, domain.WrapTaskError(id, err)
		}
		tasks = append(tasks, b.pending...)
		tasks = append(tasks, task)
		b.pending = nil
	}

	info := &templateInfo{
		params:    b.valueInputs.Difference(b.artifactInputs),
		artifacts: b.artifactInputs,
		names:     b.io,
	}

	tpl := Template{
		Outputs: b.outputs(),
		DAG:     &DAGTemplate{Tasks: tasks},
	}
	if info.params.Len() > 0 || info.artifacts.Len() > 0 {
		tpl.Inputs = &Inputs{}
		for _, n := range sets.List(info.params) {
			tpl.Inputs.Parameters = append(tpl.Inputs.Parameters, Parameter{Name: b.io.input(n)})
		}
		for _, n := range sets.List(info.artifacts) {
			tpl.Inputs.Artifacts = append(tpl.Inputs.Artifacts, Artifact{Name: b.io.input(n)})
		}
		slices.SortFunc(tpl.Inputs.Parameters, byParameterName)
		slices.SortFunc(tpl.Inputs.Artifacts, byArtifactName)
	}

	if info.name, err = c.register(prefix, tpl); err != nil {
		return nil, err
	}
	return info, nil
}

// bindings returns the effective arguments of a task: references to graph
// inputs the caller does not supply are dropped, then defaults are applied.
func (b *dagBuilder) bindings(task *domain.TaskSpec, component *domain.ComponentSpec) map[string]domain.Argument {
	effective := domain.TaskSpec{
		ComponentRef: task.ComponentRef,
		Arguments:    make(map[string]domain.Argument, len(task.Arguments)),
	}
	for n, arg := range task.Arguments {
		if in, ok := arg.(domain.GraphInput); ok && !b.provided.Has(in.InputName) {
			continue
		}
		effective.Arguments[n] = arg
	}
	return domain.TaskBindings(&effective, component)
}

func (b *dagBuilder) compileChild(id string, path []string) (*child, error) {
	task := b.graph.Tasks[id]
	component := task.Component()
	bindings := b.bindings(&task, component)

	for _, in := range component.Inputs {
		if _, ok := bindings[in.Name]; !ok && !in.Optional {
			return nil, zerr.With(domain.ErrMissingRequiredArgument, "input", in.Name)
		}
	}

	var (
		info *templateInfo
		err  error
	)
	prefix := component.DisplayName(id)
	switch impl := component.Implementation.(type) {
	case *domain.ContainerSpec:
		info, err = b.c.compileContainer(prefix, component, impl, bindings)
	case *domain.GraphSpec:
		info, err = b.c.compileGraph(component, sets.KeySet(bindings), path, prefix)
	default:
		err = zerr.With(domain.ErrUnknownImplementation, "component", prefix)
	}
	if err != nil {
		return nil, err
	}

	return &child{path: path, component: component, bindings: bindings, info: info}, nil
}

// wire builds the DAG task for a compiled child, converting artifacts to
// values where the child consumes an upstream artifact by value.
func (b *dagBuilder) wire(id string, ch *child) (DAGTask, error) {
	args := &Arguments{}
	for _, in := range ch.component.Inputs {
		n := in.Name
		byValue, byPath := ch.info.params.Has(n), ch.info.artifacts.Has(n)
		if !byValue && !byPath {
			continue
		}

		rendered := ch.info.names.input(n)
		arg, bound := ch.bindings[n]
		if !bound {
			b.c.warnMissing(ch.path, n)
			if byValue {
				args.Parameters = append(args.Parameters, Parameter{Name: rendered, Value: ptr.To("")})
			}
			continue
		}

		if byValue {
			value, err := b.valueOf(n, arg)
			if err != nil {
				return DAGTask{}, err
			}
			args.Parameters = append(args.Parameters, Parameter{Name: rendered, Value: ptr.To(value)})
		}
		if byPath {
			from, err := b.artifactOf(n, arg)
			if err != nil {
				return DAGTask{}, err
			}
			args.Artifacts = append(args.Artifacts, Artifact{Name: rendered, From: from})
		}
	}

	task := DAGTask{Name: b.names[id], Template: ch.info.name}
	if len(args.Parameters) > 0 || len(args.Artifacts) > 0 {
		slices.SortFunc(args.Parameters, byParameterName)
		slices.SortFunc(args.Artifacts, byArtifactName)
		task.Arguments = args
	}
	task.Dependencies = dependencies(task.Arguments, b.exists(task.Name))
	return task, nil
}

func (b *dagBuilder) valueOf(input string, arg domain.Argument) (string, error) {
	switch arg := arg.(type) {
	case domain.Literal:
		return string(arg), nil
	case domain.GraphInput:
		name := b.io.input(arg.InputName)
		if b.artifactInputs.Has(arg.InputName) {
			return b.convert("convert-"+name, graphArtifact(name))
		}
		return graphParameter(name), nil
	case domain.TaskOutput:
		producer, output := b.producedBy(arg)
		return b.convert("convert-"+producer+"-"+output, taskArtifact(producer, output))
	default:
		return "", zerr.With(domain.ErrUnknownArgumentKind, "input", input)
	}
}

func (b *dagBuilder) artifactOf(input string, arg domain.Argument) (string, error) {
	switch arg := arg.(type) {
	case domain.Literal:
		return "", zerr.With(domain.ErrConstantArtifactUnsupported, "input", input)
	case domain.GraphInput:
		return graphArtifact(b.io.input(arg.InputName)), nil
	case domain.TaskOutput:
		return taskArtifact(b.producedBy(arg)), nil
	default:
		return "", zerr.With(domain.ErrUnknownArgumentKind, "input", input)
	}
}

// producedBy returns the DAG task name and output artifact name behind ref.
func (b *dagBuilder) producedBy(ref domain.TaskOutput) (string, string) {
	producer := b.names[ref.TaskID]
	if ch, ok := b.children[ref.TaskID]; ok {
		return producer, ch.info.names.output(ref.OutputName)
	}
	return producer, naming.SanitizeParameterName(ref.OutputName)
}

// exists reports whether a task other than self is allocated in this DAG.
func (b *dagBuilder) exists(self string) func(string) bool {
	return func(name string) bool {
		return name != self && b.tasks.Taken(name)
	}
}

// outputs maps the graph's output values onto output artifacts.
func (b *dagBuilder) outputs() *Outputs {
	var outputs *Outputs
	for _, out := range b.component.Outputs {
		ref, ok := b.graph.OutputValues[out.Name]
		if !ok {
			continue
		}
		if outputs == nil {
			outputs = &Outputs{}
		}
		outputs.Artifacts = append(outputs.Artifacts, Artifact{
			Name: b.io.output(out.Name),
			From: taskArtifact(b.producedBy(ref)),
		})
	}
	return outputs
}

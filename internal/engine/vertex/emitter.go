// Package vertex compiles pipelines into Vertex AI PipelineJobs.
package vertex

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/cmdline"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/naming"
	"go.trai.ch/zerr"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
)

var _ ports.Emitter = (*Emitter)(nil)

// Emitter compiles components into Vertex AI PipelineJobs.
type Emitter struct {
	logger ports.Logger
}

// NewEmitter creates a new Emitter.
func NewEmitter(logger ports.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Target returns domain.TargetVertex.
func (e *Emitter) Target() domain.Target {
	return domain.TargetVertex
}

// compilation is the per-call state of one Emit.
type compilation struct {
	logger     ports.Logger
	arguments  map[string]string
	provided   sets.Set[string]
	components *naming.Allocator
	executors  *naming.Allocator
	tasks      *naming.Allocator
	names      map[string]string
	spec       *PipelineSpec

	// valueInputs and pathInputs record how root inputs are consumed.
	valueInputs sets.Set[string]
	pathInputs  sets.Set[string]
}

// Emit compiles root into a *PipelineJob. arguments must already be resolved
// against the root inputs. Graph tasks nested below the root are rejected.
func (e *Emitter) Emit(root *domain.ComponentSpec, arguments map[string]string, opts domain.CompileOptions) (any, error) {
	name := opts.PipelineName(root)
	component := domain.WrapContainerAsGraph(root)

	order, err := domain.ValidateGraph(component)
	if err != nil {
		return nil, err
	}
	graph, _ := component.Graph()

	c := &compilation{
		logger:      e.logger,
		arguments:   arguments,
		provided:    sets.KeySet(arguments),
		components:  naming.NewAllocator(naming.SanitizeDNSLabel, naming.DNSLabelMaxLength),
		executors:   naming.NewAllocator(naming.SanitizeDNSLabel, naming.DNSLabelMaxLength),
		tasks:       naming.NewAllocator(naming.SanitizeDNSLabel, naming.DNSLabelMaxLength),
		names:       make(map[string]string, len(order)),
		valueInputs: sets.New[string](),
		pathInputs:  sets.New[string](),
		spec: &PipelineSpec{
			PipelineInfo:   PipelineInfo{Name: naming.SanitizeBoundedDNSLabel(name)},
			SchemaVersion:  SchemaVersion,
			SDKVersion:     SDKVersion(),
			Components:     make(map[string]ComponentSpec),
			DeploymentSpec: DeploymentSpec{Executors: make(map[string]ExecutorSpec)},
		},
	}
	for _, id := range order {
		c.names[id] = c.tasks.Unique(id)
	}

	dag := &DAGSpec{Tasks: make(map[string]TaskSpec, len(order))}
	for _, id := range order {
		task := graph.Tasks[id]
		spec, err := c.compileTask(id, &task)
		if err != nil {
			return nil, domain.WrapTaskError(id, err)
		}
		dag.Tasks[c.names[id]] = spec
	}
	c.spec.Root = c.rootComponent(component, graph, dag)

	job := &PipelineJob{
		DisplayName:  name,
		PipelineSpec: *c.spec,
		RuntimeConfig: RuntimeConfig{
			GCSOutputDirectory: opts.OutputDirectory,
		},
	}
	if params := c.rootParameters(); params.Len() > 0 {
		job.RuntimeConfig.Parameters = make(map[string]Value, params.Len())
		for n := range params {
			job.RuntimeConfig.Parameters[n] = Value{StringValue: arguments[n]}
		}
	}
	return job, nil
}

// rootParameters are the provided root inputs passed as runtime parameters.
// Inputs consumed only by path are inlined as raw artifacts instead.
func (c *compilation) rootParameters() sets.Set[string] {
	return c.provided.Difference(c.pathInputs).Union(c.valueInputs)
}

func (c *compilation) rootComponent(component *domain.ComponentSpec, graph *domain.GraphSpec, dag *DAGSpec) ComponentSpec {
	root := ComponentSpec{DAG: dag}

	if params := c.rootParameters(); params.Len() > 0 {
		root.InputDefinitions = &Definitions{Parameters: make(map[string]ParameterSpec, params.Len())}
		for n := range params {
			root.InputDefinitions.Parameters[n] = ParameterSpec{ParameterType: ParameterTypeString}
		}
	}

	for _, out := range component.Outputs {
		ref, ok := graph.OutputValues[out.Name]
		if !ok {
			continue
		}
		if dag.Outputs == nil {
			dag.Outputs = &DAGOutputs{Artifacts: make(map[string]DAGOutputArtifact)}
			root.OutputDefinitions = &Definitions{Artifacts: make(map[string]ArtifactSpec)}
		}
		dag.Outputs.Artifacts[out.Name] = DAGOutputArtifact{
			ArtifactSelectors: []ArtifactSelector{{ProducerSubtask: c.names[ref.TaskID], OutputArtifactKey: ref.OutputName}},
		}
		root.OutputDefinitions.Artifacts[out.Name] = artifactSpec(out.Type, false)
	}
	return root
}

// bindings returns the effective arguments of a task: references to root
// inputs without a value are dropped, then defaults are applied.
func (c *compilation) bindings(task *domain.TaskSpec, component *domain.ComponentSpec) map[string]domain.Argument {
	effective := domain.TaskSpec{
		ComponentRef: task.ComponentRef,
		Arguments:    make(map[string]domain.Argument, len(task.Arguments)),
	}
	for n, arg := range task.Arguments {
		if in, ok := arg.(domain.GraphInput); ok && !c.provided.Has(in.InputName) {
			continue
		}
		effective.Arguments[n] = arg
	}
	return domain.TaskBindings(&effective, component)
}

func (c *compilation) compileTask(id string, task *domain.TaskSpec) (TaskSpec, error) {
	component := task.Component()
	display := component.DisplayName(id)

	var container *domain.ContainerSpec
	switch impl := component.Implementation.(type) {
	case *domain.ContainerSpec:
		container = impl
	case *domain.GraphSpec:
		return TaskSpec{}, zerr.With(domain.ErrUnsupportedNestedGraph, "component", display)
	default:
		return TaskSpec{}, zerr.With(domain.ErrUnknownImplementation, "component", display)
	}

	bindings := c.bindings(task, component)
	for _, in := range component.Inputs {
		if _, ok := bindings[in.Name]; !ok && !in.Optional {
			return TaskSpec{}, zerr.With(domain.ErrMissingRequiredArgument, "input", in.Name)
		}
	}

	res, err := cmdline.Resolve(container, bindings, accessors{})
	if err != nil {
		return TaskSpec{}, err
	}
	if err := res.CheckReferences(component); err != nil {
		return TaskSpec{}, err
	}

	compName, err := c.register(display, component, container, res)
	if err != nil {
		return TaskSpec{}, err
	}

	inputs := &TaskInputs{}
	producers := sets.New[string]()
	for _, in := range component.Inputs {
		n := in.Name
		byValue, byPath := res.ConsumedByValue.Has(n), res.ConsumedByPath.Has(n)
		if !byValue && !byPath {
			continue
		}

		arg, bound := bindings[n]
		if !bound {
			c.logger.Warn(fmt.Sprintf("task %s: optional input %s has no argument, using empty value", id, n))
			if byValue {
				setParameter(inputs, n, constant(""))
			}
			continue
		}

		if byValue {
			param, err := c.parameterOf(n, arg, producers)
			if err != nil {
				return TaskSpec{}, err
			}
			setParameter(inputs, n, param)
		}
		if byPath {
			artifact, err := c.artifactOf(n, arg, producers)
			if err != nil {
				return TaskSpec{}, err
			}
			if inputs.Artifacts == nil {
				inputs.Artifacts = make(map[string]ArtifactArgument)
			}
			inputs.Artifacts[n] = artifact
		}
	}

	spec := TaskSpec{
		TaskInfo:     TaskInfo{Name: id},
		ComponentRef: ComponentRef{Name: compName},
	}
	if len(inputs.Parameters) > 0 || len(inputs.Artifacts) > 0 {
		spec.Inputs = inputs
	}
	if producers.Len() > 0 {
		spec.DependentTasks = sets.List(producers)
	}
	return spec, nil
}

func setParameter(inputs *TaskInputs, name string, param ParameterArgument) {
	if inputs.Parameters == nil {
		inputs.Parameters = make(map[string]ParameterArgument)
	}
	inputs.Parameters[name] = param
}

// register allocates the executor and component of a container task,
// reusing structurally identical ones.
func (c *compilation) register(
	display string,
	component *domain.ComponentSpec,
	container *domain.ContainerSpec,
	res *cmdline.Result,
) (string, error) {
	executor := ExecutorSpec{Container: &ContainerSpec{
		Image:   container.Image,
		Command: res.Command,
		Args:    res.Args,
	}}
	for _, n := range slices.Sorted(maps.Keys(res.Env)) {
		executor.Container.Env = append(executor.Container.Env, EnvVar{Name: n, Value: res.Env[n]})
	}

	label, reused, err := c.executors.Allocate("exec-"+display, executor)
	if err != nil {
		return "", err
	}
	if !reused {
		c.spec.DeploymentSpec.Executors[label] = executor
	}

	spec := ComponentSpec{ExecutorLabel: label}
	defs := &Definitions{}
	for _, in := range component.Inputs {
		if res.ConsumedByValue.Has(in.Name) {
			if defs.Parameters == nil {
				defs.Parameters = make(map[string]ParameterSpec)
			}
			defs.Parameters[in.Name] = ParameterSpec{ParameterType: ParameterTypeString, IsOptional: in.Optional}
		}
		if res.ConsumedByPath.Has(in.Name) {
			if defs.Artifacts == nil {
				defs.Artifacts = make(map[string]ArtifactSpec)
			}
			defs.Artifacts[in.Name] = artifactSpec(in.Type, in.Optional)
		}
	}
	if len(defs.Parameters) > 0 || len(defs.Artifacts) > 0 {
		spec.InputDefinitions = defs
	}
	if len(component.Outputs) > 0 {
		spec.OutputDefinitions = &Definitions{Artifacts: make(map[string]ArtifactSpec, len(component.Outputs))}
		for _, out := range component.Outputs {
			spec.OutputDefinitions.Artifacts[out.Name] = artifactSpec(out.Type, false)
		}
	}

	name, reused, err := c.components.Allocate("comp-"+display, spec)
	if err != nil {
		return "", err
	}
	if !reused {
		c.spec.Components[name] = spec
	}
	return name, nil
}

func (c *compilation) parameterOf(input string, arg domain.Argument, producers sets.Set[string]) (ParameterArgument, error) {
	switch arg := arg.(type) {
	case domain.Literal:
		return constant(string(arg)), nil
	case domain.GraphInput:
		c.valueInputs.Insert(arg.InputName)
		return ParameterArgument{ComponentInputParameter: arg.InputName}, nil
	case domain.TaskOutput:
		producer := c.names[arg.TaskID]
		producers.Insert(producer)
		return ParameterArgument{TaskOutputParameter: &TaskOutputParameter{
			ProducerTask:       producer,
			OutputParameterKey: arg.OutputName,
		}}, nil
	default:
		return ParameterArgument{}, zerr.With(domain.ErrUnknownArgumentKind, "input", input)
	}
}

func (c *compilation) artifactOf(input string, arg domain.Argument, producers sets.Set[string]) (ArtifactArgument, error) {
	switch arg := arg.(type) {
	case domain.Literal:
		return ArtifactArgument{Raw: ptr.To(string(arg))}, nil
	case domain.GraphInput:
		c.pathInputs.Insert(arg.InputName)
		return ArtifactArgument{Raw: ptr.To(c.arguments[arg.InputName])}, nil
	case domain.TaskOutput:
		producer := c.names[arg.TaskID]
		producers.Insert(producer)
		return ArtifactArgument{TaskOutputArtifact: &TaskOutputArtifact{
			ProducerTask:      producer,
			OutputArtifactKey: arg.OutputName,
		}}, nil
	default:
		return ArtifactArgument{}, zerr.With(domain.ErrUnknownArgumentKind, "input", input)
	}
}

// Package argo compiles pipelines into Argo Workflows.
package argo

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/cmdline"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/naming"
	"go.trai.ch/zerr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/ptr"
)

var _ ports.Emitter = (*Emitter)(nil)

// Emitter compiles components into Argo Workflows.
type Emitter struct {
	logger ports.Logger
}

// NewEmitter creates a new Emitter.
func NewEmitter(logger ports.Logger) *Emitter {
	return &Emitter{logger: logger}
}

// Target returns domain.TargetArgo.
func (e *Emitter) Target() domain.Target {
	return domain.TargetArgo
}

// Emit compiles root into a *Workflow. arguments must already be resolved
// against the root inputs.
func (e *Emitter) Emit(root *domain.ComponentSpec, arguments map[string]string, opts domain.CompileOptions) (any, error) {
	name := opts.PipelineName(root)
	c := newCompilation(e.logger)

	info, err := c.compileGraph(domain.WrapContainerAsGraph(root), sets.KeySet(arguments), nil, name)
	if err != nil {
		return nil, err
	}
	if info.artifacts.Len() > 0 {
		return nil, zerr.With(domain.ErrConstantArtifactUnsupported, "input", sets.List(info.artifacts)[0])
	}

	wf := &Workflow{
		TypeMeta: metav1.TypeMeta{APIVersion: APIVersion, Kind: Kind},
		ObjectMeta: metav1.ObjectMeta{
			GenerateName: naming.SanitizeGenerateName(name),
			Annotations:  map[string]string{PipelineNameAnnotation: name},
		},
		Spec: WorkflowSpec{
			Entrypoint: info.name,
			Templates:  c.emitted,
		},
	}
	if info.params.Len() > 0 {
		params := make([]Parameter, 0, info.params.Len())
		for _, n := range sets.List(info.params) {
			params = append(params, Parameter{Name: info.names.input(n), Value: ptr.To(arguments[n])})
		}
		slices.SortFunc(params, byParameterName)
		wf.Spec.Arguments = &Arguments{Parameters: params}
	}
	return wf, nil
}

// templateInfo describes how a compiled template takes its inputs. params
// and artifacts hold component input names; names renders them.
type templateInfo struct {
	name      string
	params    sets.Set[string]
	artifacts sets.Set[string]
	names     ioNames
}

// compilation is the per-call state: the template scope and the lazily
// created shared templates.
type compilation struct {
	logger    ports.Logger
	templates *naming.Allocator
	emitted   []Template
	registry  map[string]string
}

func newCompilation(logger ports.Logger) *compilation {
	return &compilation{
		logger:    logger,
		templates: naming.NewAllocator(naming.SanitizeDNSLabel, naming.DNSLabelMaxLength),
		registry:  make(map[string]string),
	}
}

// register names tpl and records it, unless an identical template already exists.
func (c *compilation) register(prefix string, tpl Template) (string, error) {
	tpl.Name = ""
	name, reused, err := c.templates.Allocate(prefix, tpl)
	if err != nil {
		return "", err
	}
	if !reused {
		tpl.Name = name
		c.emitted = append(c.emitted, tpl)
	}
	return name, nil
}

// shared returns the template stored under key, building and registering it on first use.
func (c *compilation) shared(key string, build func() Template) (string, error) {
	if name, ok := c.registry[key]; ok {
		return name, nil
	}
	name, err := c.register(key, build())
	if err != nil {
		return "", err
	}
	c.registry[key] = name
	return name, nil
}

func (c *compilation) compileContainer(
	prefix string,
	component *domain.ComponentSpec,
	container *domain.ContainerSpec,
	bindings map[string]domain.Argument,
) (*templateInfo, error) {
	names := newIONames(component)
	res, err := cmdline.Resolve(container, bindings, accessors{names: names})
	if err != nil {
		return nil, err
	}
	if err := res.CheckReferences(component); err != nil {
		return nil, err
	}

	info := &templateInfo{
		params:    res.ConsumedByValue,
		artifacts: res.ConsumedByPath,
		names:     names,
	}

	inputs := &Inputs{}
	for _, n := range sets.List(res.ConsumedByValue) {
		inputs.Parameters = append(inputs.Parameters, Parameter{Name: names.input(n)})
	}
	for _, n := range sets.List(res.ConsumedByPath) {
		_, bound := bindings[n]
		rendered := names.input(n)
		inputs.Artifacts = append(inputs.Artifacts, Artifact{Name: rendered, Path: inputArtifactPath(rendered), Optional: !bound})
	}
	slices.SortFunc(inputs.Parameters, byParameterName)
	slices.SortFunc(inputs.Artifacts, byArtifactName)

	var outputs *Outputs
	for _, out := range component.Outputs {
		if outputs == nil {
			outputs = &Outputs{}
		}
		rendered := names.output(out.Name)
		outputs.Artifacts = append(outputs.Artifacts, Artifact{
			Name:     rendered,
			Path:     outputArtifactPath(rendered),
			Optional: !res.ProducedOutputs.Has(out.Name),
		})
	}

	var env []EnvVar
	for _, n := range slices.Sorted(maps.Keys(res.Env)) {
		env = append(env, EnvVar{Name: n, Value: res.Env[n]})
	}

	tpl := Template{
		Outputs: outputs,
		Container: &Container{
			Image:   container.Image,
			Command: res.Command,
			Args:    res.Args,
			Env:     env,
		},
	}
	if len(inputs.Parameters) > 0 || len(inputs.Artifacts) > 0 {
		tpl.Inputs = inputs
	}

	if info.name, err = c.register(prefix, tpl); err != nil {
		return nil, err
	}
	return info, nil
}

func byParameterName(x, y Parameter) int { return strings.Compare(x.Name, y.Name) }
func byArtifactName(x, y Artifact) int   { return strings.Compare(x.Name, y.Name) }

func (c *compilation) warnMissing(path []string, input string) {
	c.logger.Warn(fmt.Sprintf("task %s: optional input %s has no argument, using empty value", strings.Join(path, "/"), input))
}

package argo_test

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports/mocks"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/engine/argo"
	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
)

func component(name string, inputs []domain.InputSpec, outputs []string, args ...domain.Placeholder) *domain.ComponentSpec {
	c := &domain.ComponentSpec{
		Name:           name,
		Inputs:         inputs,
		Implementation: &domain.ContainerSpec{Image: "python:3.12", Args: args},
	}
	for _, out := range outputs {
		c.Outputs = append(c.Outputs, domain.OutputSpec{Name: out})
	}
	return c
}

func task(spec *domain.ComponentSpec, args map[string]domain.Argument) domain.TaskSpec {
	return domain.TaskSpec{ComponentRef: domain.ComponentReference{Spec: spec}, Arguments: args}
}

func trainComponent() *domain.ComponentSpec {
	c := component("Train",
		[]domain.InputSpec{{Name: "data_url"}},
		[]string{"model"},
		domain.Literal("--data"), domain.InputValue{Name: "data_url"},
		domain.Literal("--model"), domain.OutputPath{Name: "model"},
	)
	c.Implementation.(*domain.ContainerSpec).Command = []domain.Placeholder{domain.Literal("python"), domain.Literal("train.py")}
	return c
}

func predictComponent(model domain.Placeholder) *domain.ComponentSpec {
	c := component("Predict",
		[]domain.InputSpec{{Name: "model"}, {Name: "threshold", Default: ptr.To("0.5")}},
		[]string{"predictions"},
		model,
		domain.Literal("--threshold"), domain.InputValue{Name: "threshold"},
		domain.Literal("--out"), domain.OutputPath{Name: "predictions"},
	)
	c.Implementation.(*domain.ContainerSpec).Command = []domain.Placeholder{domain.Literal("python"), domain.Literal("predict.py")}
	return c
}

// trainPredict builds the train -> predict pipeline with model consumed through the given placeholder.
func trainPredict(model domain.Placeholder) *domain.ComponentSpec {
	return &domain.ComponentSpec{
		Name:    "Demo Pipeline",
		Inputs:  []domain.InputSpec{{Name: "data_url"}},
		Outputs: []domain.OutputSpec{{Name: "predictions"}},
		Implementation: &domain.GraphSpec{
			Tasks: map[string]domain.TaskSpec{
				"train": task(trainComponent(), map[string]domain.Argument{
					"data_url": domain.GraphInput{InputName: "data_url"},
				}),
				"predict": task(predictComponent(model), map[string]domain.Argument{
					"model": domain.TaskOutput{TaskID: "train", OutputName: "model"},
				}),
			},
			OutputValues: map[string]domain.TaskOutput{
				"predictions": {TaskID: "predict", OutputName: "predictions"},
			},
		},
	}
}

func emit(t *testing.T, root *domain.ComponentSpec, args map[string]string) (*argo.Workflow, error) {
	t.Helper()
	ctrl := gomock.NewController(t)
	e := argo.NewEmitter(mocks.NewMockLogger(ctrl))

	doc, err := e.Emit(root, args, domain.CompileOptions{Target: domain.TargetArgo})
	if err != nil {
		return nil, err
	}
	wf, ok := doc.(*argo.Workflow)
	require.True(t, ok)
	return wf, nil
}

func findTemplate(t *testing.T, wf *argo.Workflow, name string) argo.Template {
	t.Helper()
	for _, tpl := range wf.Spec.Templates {
		if tpl.Name == name {
			return tpl
		}
	}
	require.Failf(t, "template not found", "%s", name)
	return argo.Template{}
}

func findTask(t *testing.T, tpl argo.Template, name string) argo.DAGTask {
	t.Helper()
	require.NotNil(t, tpl.DAG)
	for _, task := range tpl.DAG.Tasks {
		if task.Name == name {
			return task
		}
	}
	require.Failf(t, "task not found", "%s", name)
	return argo.DAGTask{}
}

func converterTasks(wf *argo.Workflow) []argo.DAGTask {
	var out []argo.DAGTask
	for _, tpl := range wf.Spec.Templates {
		if tpl.DAG == nil {
			continue
		}
		for _, task := range tpl.DAG.Tasks {
			if task.Template == argo.ConverterTemplateKey {
				out = append(out, task)
			}
		}
	}
	return out
}

func TestEmit_Golden(t *testing.T) {
	modelArg := domain.Concat{Items: []domain.Placeholder{domain.Literal("--model="), domain.InputValue{Name: "model"}}}
	wf, err := emit(t, trainPredict(modelArg), map[string]string{"data_url": "gs://bucket/data.csv"})
	require.NoError(t, err)

	assert.Equal(t, argo.APIVersion, wf.APIVersion)
	assert.Equal(t, argo.Kind, wf.Kind)
	assert.Equal(t, "demo-pipeline-", wf.GenerateName)
	assert.Equal(t, "Demo Pipeline", wf.Annotations[argo.PipelineNameAnnotation])

	data, err := json.MarshalIndent(wf.Spec, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "train_predict_spec", append(data, '\n'))
}

func TestEmit_InputPathNeedsNoConverter(t *testing.T) {
	wf, err := emit(t, trainPredict(domain.InputPath{Name: "model"}), map[string]string{"data_url": "x"})
	require.NoError(t, err)

	assert.Empty(t, converterTasks(wf))
	for _, tpl := range wf.Spec.Templates {
		assert.NotEqual(t, argo.ConverterTemplateKey, tpl.Name)
	}

	root := findTemplate(t, wf, wf.Spec.Entrypoint)
	predict := findTask(t, root, "predict")
	assert.Equal(t, []string{"train"}, predict.Dependencies)
	require.NotNil(t, predict.Arguments)
	assert.Equal(t, []argo.Artifact{{Name: "model", From: "{{tasks.train.outputs.artifacts.model}}"}}, predict.Arguments.Artifacts)

	tpl := findTemplate(t, wf, predict.Template)
	assert.Equal(t, []argo.Artifact{{Name: "model", Path: "/tmp/inputs/model/data"}}, tpl.Inputs.Artifacts)
	assert.Contains(t, tpl.Container.Args, "{{inputs.artifacts.model.path}}")
}

func TestEmit_InputValueInsertsConverter(t *testing.T) {
	wf, err := emit(t, trainPredict(domain.InputValue{Name: "model"}), map[string]string{"data_url": "x"})
	require.NoError(t, err)

	converters := converterTasks(wf)
	require.Len(t, converters, 1)
	conv := converters[0]
	assert.Equal(t, []string{"train"}, conv.Dependencies)

	root := findTemplate(t, wf, wf.Spec.Entrypoint)
	predict := findTask(t, root, "predict")
	assert.Equal(t, []string{conv.Name}, predict.Dependencies)
	assert.Contains(t, predict.Arguments.Parameters, argo.Parameter{
		Name:  "model",
		Value: ptr.To("{{tasks." + conv.Name + ".outputs.parameters.value}}"),
	})

	names := make([]string, 0, len(root.DAG.Tasks))
	for _, task := range root.DAG.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"train", conv.Name, "predict"}, names)
}

func TestEmit_ConverterSharedBetweenConsumers(t *testing.T) {
	consumer := predictComponent(domain.InputValue{Name: "model"})
	root := &domain.ComponentSpec{
		Name: "fan-out",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"train": task(trainComponent(), map[string]domain.Argument{"data_url": domain.Literal("x")}),
			"a":     task(consumer, map[string]domain.Argument{"model": domain.TaskOutput{TaskID: "train", OutputName: "model"}}),
			"b": task(consumer, map[string]domain.Argument{
				"model":     domain.TaskOutput{TaskID: "train", OutputName: "model"},
				"threshold": domain.Literal("0.9"),
			}),
		}},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	converters := converterTasks(wf)
	require.Len(t, converters, 1)

	dag := findTemplate(t, wf, wf.Spec.Entrypoint)
	want := "{{tasks." + converters[0].Name + ".outputs.parameters.value}}"
	for _, name := range []string{"a", "b"} {
		consumerTask := findTask(t, dag, name)
		assert.Contains(t, consumerTask.Arguments.Parameters, argo.Parameter{Name: "model", Value: ptr.To(want)})
		assert.Equal(t, []string{converters[0].Name}, consumerTask.Dependencies)
	}

	var converterTemplates int
	for _, tpl := range wf.Spec.Templates {
		if tpl.Name == argo.ConverterTemplateKey {
			converterTemplates++
		}
	}
	assert.Equal(t, 1, converterTemplates)
	assert.Equal(t, findTask(t, dag, "a").Template, findTask(t, dag, "b").Template)
}

func TestEmit_DefaultsBecomeLiterals(t *testing.T) {
	wf, err := emit(t, trainPredict(domain.InputPath{Name: "model"}), map[string]string{"data_url": "x"})
	require.NoError(t, err)

	predict := findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "predict")
	assert.Equal(t, []argo.Parameter{{Name: "threshold", Value: ptr.To("0.5")}}, predict.Arguments.Parameters)
}

func TestEmit_MissingRequiredArgument(t *testing.T) {
	root := trainPredict(domain.InputPath{Name: "model"})
	g, _ := root.Graph()
	train := g.Tasks["train"]
	train.Arguments = nil
	g.Tasks["train"] = train

	_, err := emit(t, root, map[string]string{"data_url": "x"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingRequiredArgument.Error())

	var taskErr *domain.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, []string{"train"}, taskErr.Path)
}

func TestEmit_ConditionalResolution(t *testing.T) {
	conditional := component("cond",
		[]domain.InputSpec{{Name: "x", Optional: true}},
		nil,
		domain.If{
			Cond: domain.IsPresent{Name: "x"},
			Then: []domain.Placeholder{domain.Literal("a")},
			Else: []domain.Placeholder{domain.Literal("b")},
		},
	)

	tests := []struct {
		name string
		args map[string]domain.Argument
		want []string
	}{
		{"Bound", map[string]domain.Argument{"x": domain.Literal("v")}, []string{"a"}},
		{"Unbound", nil, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &domain.ComponentSpec{
				Name:           "p",
				Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"t": task(conditional, tt.args)}},
			}
			wf, err := emit(t, root, nil)
			require.NoError(t, err)

			tpl := findTemplate(t, wf, findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "t").Template)
			assert.Equal(t, tt.want, tpl.Container.Args)
		})
	}
}

func TestEmit_Idempotent(t *testing.T) {
	root := trainPredict(domain.InputValue{Name: "model"})
	args := map[string]string{"data_url": "x"}

	first, err := emit(t, root, args)
	require.NoError(t, err)
	second, err := emit(t, root, args)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first.Spec, second.Spec))
	assert.Equal(t, first.ObjectMeta, second.ObjectMeta)
}

var parameterName = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func parameterNames(params []argo.Parameter) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names
}

func artifactNames(artifacts []argo.Artifact) []string {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Name)
	}
	return names
}

// ioNames collects every parameter and artifact name declared or passed in wf.
func ioNames(wf *argo.Workflow) []string {
	var names []string
	collect := func(params []argo.Parameter, artifacts []argo.Artifact) {
		names = append(names, parameterNames(params)...)
		names = append(names, artifactNames(artifacts)...)
	}
	if wf.Spec.Arguments != nil {
		collect(wf.Spec.Arguments.Parameters, wf.Spec.Arguments.Artifacts)
	}
	for _, tpl := range wf.Spec.Templates {
		if tpl.Inputs != nil {
			collect(tpl.Inputs.Parameters, tpl.Inputs.Artifacts)
		}
		if tpl.Outputs != nil {
			collect(tpl.Outputs.Parameters, tpl.Outputs.Artifacts)
		}
		if tpl.DAG == nil {
			continue
		}
		for _, task := range tpl.DAG.Tasks {
			if task.Arguments != nil {
				collect(task.Arguments.Parameters, task.Arguments.Artifacts)
			}
		}
	}
	return names
}

func TestEmit_NamesAreDNSLabels(t *testing.T) {
	odd := component("__Weird Name__ With *** Symbols And A Very Long Suffix That Exceeds Sixty Three Characters",
		[]domain.InputSpec{{Name: "Input message", Optional: true}}, []string{"Output data"},
		domain.InputValue{Name: "Input message"}, domain.OutputPath{Name: "Output data"},
	)
	out := func(id string) domain.Argument { return domain.TaskOutput{TaskID: id, OutputName: "Output data"} }
	root := &domain.ComponentSpec{
		Name:   "Root Pipeline!",
		Inputs: []domain.InputSpec{{Name: "Run label (optional)", Optional: true}},
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"_first":          task(odd, map[string]domain.Argument{"Input message": domain.GraphInput{InputName: "Run label (optional)"}}),
			"Second Task":     task(odd, map[string]domain.Argument{"Input message": out("_first")}),
			"second-task":     task(odd, map[string]domain.Argument{"Input message": out("Second Task")}),
			"Ünïcödé / tásk!": task(odd, map[string]domain.Argument{"Input message": domain.Literal("2")}),
		}},
	}

	wf, err := emit(t, root, map[string]string{"Run label (optional)": "nightly"})
	require.NoError(t, err)

	var names []string
	for _, tpl := range wf.Spec.Templates {
		names = append(names, tpl.Name)
		if tpl.DAG != nil {
			for _, task := range tpl.DAG.Tasks {
				names = append(names, task.Name)
			}
		}
	}
	require.NotEmpty(t, names)
	for _, name := range names {
		assert.Empty(t, validation.IsDNS1123Label(name), name)
	}

	io := ioNames(wf)
	require.NotEmpty(t, io)
	for _, name := range io {
		assert.Regexp(t, parameterName, name)
	}
	assert.Equal(t, &argo.Arguments{Parameters: []argo.Parameter{{Name: "Run-label-optional", Value: ptr.To("nightly")}}}, wf.Spec.Arguments)
}

func TestEmit_ParameterNamesAreSanitized(t *testing.T) {
	echo := component("echo",
		[]domain.InputSpec{{Name: "Input message"}, {Name: "Input-message"}, {Name: "Training data"}},
		[]string{"Output data"},
		domain.InputValue{Name: "Input message"},
		domain.InputValue{Name: "Input-message"},
		domain.InputPath{Name: "Training data"},
		domain.OutputPath{Name: "Output data"},
	)
	producer := component("producer", nil, []string{"Raw data"}, domain.OutputPath{Name: "Raw data"})
	root := &domain.ComponentSpec{
		Name:    "p",
		Outputs: []domain.OutputSpec{{Name: "Final result"}},
		Implementation: &domain.GraphSpec{
			Tasks: map[string]domain.TaskSpec{
				"produce": task(producer, nil),
				"echo": task(echo, map[string]domain.Argument{
					"Input message": domain.Literal("a"),
					"Input-message": domain.TaskOutput{TaskID: "produce", OutputName: "Raw data"},
					"Training data": domain.TaskOutput{TaskID: "produce", OutputName: "Raw data"},
				}),
			},
			OutputValues: map[string]domain.TaskOutput{"Final result": {TaskID: "echo", OutputName: "Output data"}},
		},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	dag := findTemplate(t, wf, wf.Spec.Entrypoint)
	echoTask := findTask(t, dag, "echo")
	tpl := findTemplate(t, wf, echoTask.Template)

	assert.Equal(t, []string{"Input-message", "Input-message-2"}, parameterNames(tpl.Inputs.Parameters))
	assert.Equal(t, []argo.Artifact{{Name: "Training-data", Path: "/tmp/inputs/Training-data/data"}}, tpl.Inputs.Artifacts)
	assert.Equal(t, []argo.Artifact{{Name: "Output-data", Path: "/tmp/outputs/Output-data/data"}}, tpl.Outputs.Artifacts)
	assert.Equal(t, []string{
		"{{inputs.parameters.Input-message}}",
		"{{inputs.parameters.Input-message-2}}",
		"{{inputs.artifacts.Training-data.path}}",
		"{{outputs.artifacts.Output-data.path}}",
	}, tpl.Container.Args)

	converters := converterTasks(wf)
	require.Len(t, converters, 1)
	assert.Equal(t, "{{tasks.produce.outputs.artifacts.Raw-data}}", converters[0].Arguments.Artifacts[0].From)

	assert.Equal(t, []argo.Parameter{
		{Name: "Input-message", Value: ptr.To("a")},
		{Name: "Input-message-2", Value: ptr.To("{{tasks." + converters[0].Name + ".outputs.parameters.value}}")},
	}, echoTask.Arguments.Parameters)
	assert.Equal(t, []argo.Artifact{{Name: "Training-data", From: "{{tasks.produce.outputs.artifacts.Raw-data}}"}}, echoTask.Arguments.Artifacts)
	assert.Equal(t, &argo.Outputs{Artifacts: []argo.Artifact{{Name: "Final-result", From: "{{tasks.echo.outputs.artifacts.Output-data}}"}}}, dag.Outputs)
}

func TestEmit_LiteralTaskReferenceIsNotDependency(t *testing.T) {
	printer := component("printer", []domain.InputSpec{{Name: "text"}}, nil, domain.InputValue{Name: "text"})
	root := &domain.ComponentSpec{
		Name: "p",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"print": task(printer, map[string]domain.Argument{
				"text": domain.Literal("{{tasks.ghost.outputs.parameters.x}} {{tasks.print.outputs.parameters.y}}"),
			}),
		}},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	assert.Empty(t, findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "print").Dependencies)
}

func TestEmit_ConstantArtifactUnsupported(t *testing.T) {
	reader := component("reader", []domain.InputSpec{{Name: "file"}}, nil, domain.InputPath{Name: "file"})
	root := &domain.ComponentSpec{
		Name:           "p",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"read": task(reader, map[string]domain.Argument{"file": domain.Literal("inline")})}},
	}

	_, err := emit(t, root, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConstantArtifactUnsupported.Error())
	assert.ErrorContains(t, err, "read: ")
}

func TestEmit_RootArtifactInputUnsupported(t *testing.T) {
	reader := component("reader", []domain.InputSpec{{Name: "file"}}, nil, domain.InputPath{Name: "file"})

	_, err := emit(t, reader, map[string]string{"file": "inline"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConstantArtifactUnsupported.Error())
}

func TestEmit_ContainerRoot(t *testing.T) {
	wf, err := emit(t, trainComponent(), map[string]string{"data_url": "gs://x"})
	require.NoError(t, err)

	root := findTemplate(t, wf, wf.Spec.Entrypoint)
	require.NotNil(t, root.DAG)
	require.Len(t, root.DAG.Tasks, 1)
	assert.Equal(t, &argo.Arguments{Parameters: []argo.Parameter{{Name: "data_url", Value: ptr.To("gs://x")}}}, wf.Spec.Arguments)
}

func TestEmit_OptionalInputWithoutArgument(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn("task t: optional input file has no argument, using empty value")
	logger.EXPECT().Warn("task t: optional input flag has no argument, using empty value")

	optional := component("opt",
		[]domain.InputSpec{{Name: "flag", Optional: true}, {Name: "file", Optional: true}},
		nil,
		domain.InputValue{Name: "flag"}, domain.InputPath{Name: "file"},
	)
	root := &domain.ComponentSpec{
		Name:           "p",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"t": task(optional, nil)}},
	}

	doc, err := argo.NewEmitter(logger).Emit(root, nil, domain.CompileOptions{})
	require.NoError(t, err)
	wf := doc.(*argo.Workflow)

	dagTask := findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "t")
	assert.Equal(t, []argo.Parameter{{Name: "flag", Value: ptr.To("")}}, dagTask.Arguments.Parameters)
	assert.Empty(t, dagTask.Arguments.Artifacts)

	tpl := findTemplate(t, wf, dagTask.Template)
	assert.Equal(t, []argo.Artifact{{Name: "file", Path: "/tmp/inputs/file/data", Optional: true}}, tpl.Inputs.Artifacts)
}

func TestEmit_UnreferencedOutputIsOptional(t *testing.T) {
	quiet := component("quiet", nil, []string{"written", "unused"}, domain.OutputPath{Name: "written"})
	root := &domain.ComponentSpec{
		Name:           "p",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"q": task(quiet, nil)}},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	tpl := findTemplate(t, wf, "quiet")
	assert.Equal(t, []argo.Artifact{
		{Name: "written", Path: "/tmp/outputs/written/data"},
		{Name: "unused", Path: "/tmp/outputs/unused/data", Optional: true},
	}, tpl.Outputs.Artifacts)
}

func TestEmit_NestedGraph(t *testing.T) {
	reader := component("reader", []domain.InputSpec{{Name: "file"}}, []string{"out"}, domain.InputPath{Name: "file"}, domain.OutputPath{Name: "out"})
	printer := component("printer", []domain.InputSpec{{Name: "text"}}, nil, domain.InputValue{Name: "text"})

	inner := &domain.ComponentSpec{
		Name:    "inner",
		Inputs:  []domain.InputSpec{{Name: "data"}},
		Outputs: []domain.OutputSpec{{Name: "result"}},
		Implementation: &domain.GraphSpec{
			Tasks: map[string]domain.TaskSpec{
				"read":  task(reader, map[string]domain.Argument{"file": domain.GraphInput{InputName: "data"}}),
				"print": task(printer, map[string]domain.Argument{"text": domain.GraphInput{InputName: "data"}}),
			},
			OutputValues: map[string]domain.TaskOutput{"result": {TaskID: "read", OutputName: "out"}},
		},
	}
	producer := component("producer", nil, []string{"out"}, domain.OutputPath{Name: "out"})
	root := &domain.ComponentSpec{
		Name: "outer",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"produce": task(producer, nil),
			"nested":  task(inner, map[string]domain.Argument{"data": domain.TaskOutput{TaskID: "produce", OutputName: "out"}}),
		}},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	nested := findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "nested")
	assert.Equal(t, []string{"produce"}, nested.Dependencies)
	assert.Equal(t, []argo.Artifact{{Name: "data", From: "{{tasks.produce.outputs.artifacts.out}}"}}, nested.Arguments.Artifacts)

	innerTpl := findTemplate(t, wf, nested.Template)
	assert.Equal(t, &argo.Inputs{Artifacts: []argo.Artifact{{Name: "data"}}}, innerTpl.Inputs)
	assert.Equal(t, &argo.Outputs{Artifacts: []argo.Artifact{{Name: "result", From: "{{tasks.read.outputs.artifacts.out}}"}}}, innerTpl.Outputs)

	converters := converterTasks(wf)
	require.Len(t, converters, 1)
	assert.Equal(t, "{{inputs.artifacts.data}}", converters[0].Arguments.Artifacts[0].From)
	assert.Empty(t, converters[0].Dependencies)
}

func TestEmit_NestedErrorPath(t *testing.T) {
	leaf := component("leaf", []domain.InputSpec{{Name: "req"}}, nil, domain.InputValue{Name: "req"})
	inner := &domain.ComponentSpec{
		Name:           "inner",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"taskB": task(leaf, nil)}},
	}
	root := &domain.ComponentSpec{
		Name:           "outer",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{"taskA": task(inner, nil)}},
	}

	_, err := emit(t, root, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "taskA/taskB: ")
	assert.ErrorContains(t, err, domain.ErrMissingRequiredArgument.Error())
}

func TestEmit_NestedGraphUnusedInput(t *testing.T) {
	printer := component("printer", []domain.InputSpec{{Name: "text"}}, nil, domain.InputValue{Name: "text"})
	inner := &domain.ComponentSpec{
		Name:   "inner",
		Inputs: []domain.InputSpec{{Name: "unused"}},
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"print": task(printer, map[string]domain.Argument{"text": domain.Literal("hello")}),
		}},
	}
	producer := component("producer", nil, []string{"out"}, domain.OutputPath{Name: "out"})
	root := &domain.ComponentSpec{
		Name: "outer",
		Implementation: &domain.GraphSpec{Tasks: map[string]domain.TaskSpec{
			"produce": task(producer, nil),
			"nested":  task(inner, map[string]domain.Argument{"unused": domain.TaskOutput{TaskID: "produce", OutputName: "out"}}),
		}},
	}

	wf, err := emit(t, root, nil)
	require.NoError(t, err)

	assert.Empty(t, converterTasks(wf))
	for _, tpl := range wf.Spec.Templates {
		assert.NotEqual(t, argo.ConverterTemplateKey, tpl.Name)
	}

	nested := findTask(t, findTemplate(t, wf, wf.Spec.Entrypoint), "nested")
	assert.Nil(t, nested.Arguments)
	assert.Empty(t, nested.Dependencies)
	assert.Nil(t, findTemplate(t, wf, nested.Template).Inputs)
}

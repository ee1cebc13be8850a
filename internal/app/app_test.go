package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/adapters/telemetry"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/app"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader   *mocks.MockComponentLoader
	compiler *mocks.MockCompiler
	writer   *mocks.MockDocumentWriter
	watcher  *mocks.MockWatcher
	logger   *mocks.MockLogger
	app      *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		loader:   mocks.NewMockComponentLoader(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		writer:   mocks.NewMockDocumentWriter(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}
	f.app = app.New(f.loader, f.compiler, f.writer, telemetry.NewNoOpTracer(), f.watcher, f.logger)
	return f
}

func echo() *domain.ComponentSpec {
	return &domain.ComponentSpec{
		Name:           "Echo",
		Inputs:         []domain.InputSpec{{Name: "msg"}},
		Implementation: &domain.ContainerSpec{Image: "alpine"},
	}
}

func pipeline(tasks map[string]domain.TaskSpec) *domain.ComponentSpec {
	return &domain.ComponentSpec{
		Name:           "Demo",
		Inputs:         []domain.InputSpec{{Name: "msg"}},
		Implementation: &domain.GraphSpec{Tasks: tasks},
	}
}

func TestApp_Compile(t *testing.T) {
	f := newFixture(t)
	component := echo()
	doc := map[string]string{"kind": "Workflow"}

	f.loader.EXPECT().LoadArguments("args.yaml").Return(map[string]string{"msg": "from-file", "extra": "kept"}, nil)
	f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(component, nil)
	f.compiler.EXPECT().Compile(component, domain.CompileOptions{
		Target:          domain.TargetVertex,
		Arguments:       map[string]string{"msg": "from-flag", "extra": "kept"},
		Name:            "nightly",
		OutputDirectory: "gs://bucket/out",
	}).Return(doc, nil)
	f.writer.EXPECT().Write(gomock.Any(), domain.StdoutPath, domain.FormatYAML, doc).Return(nil)

	err := f.app.Compile(t.Context(), app.CompileOptions{
		Path:            "pipeline.yaml",
		Target:          domain.TargetVertex,
		Arguments:       map[string]string{"msg": "from-flag"},
		ArgumentsFile:   "args.yaml",
		Name:            "nightly",
		OutputDirectory: "gs://bucket/out",
	})
	require.NoError(t, err)
}

func TestApp_Compile_ToFile(t *testing.T) {
	f := newFixture(t)
	component := echo()

	f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(component, nil)
	f.compiler.EXPECT().Compile(component, gomock.Any()).Return("doc", nil)
	f.writer.EXPECT().Write(gomock.Any(), "out/workflow.json", domain.FormatJSON, "doc").Return(nil)
	f.logger.EXPECT().Info("compiled pipeline.yaml to out/workflow.json")

	err := f.app.Compile(t.Context(), app.CompileOptions{
		Path:   "pipeline.yaml",
		Output: "out/workflow.json",
		Format: domain.FormatJSON,
	})
	require.NoError(t, err)
}

func TestApp_Compile_Errors(t *testing.T) {
	errLoad := errors.New("load failed")
	errCompile := errors.New("compile failed")
	errWrite := errors.New("write failed")
	errArgs := errors.New("args failed")

	tests := []struct {
		name    string
		setup   func(f *fixture)
		args    string
		wantErr error
	}{
		{
			name: "ArgumentsFile",
			args: "args.yaml",
			setup: func(f *fixture) {
				f.loader.EXPECT().LoadArguments("args.yaml").Return(nil, errArgs)
			},
			wantErr: errArgs,
		},
		{
			name: "Load",
			setup: func(f *fixture) {
				f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(nil, errLoad)
			},
			wantErr: errLoad,
		},
		{
			name: "Compile",
			setup: func(f *fixture) {
				f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(echo(), nil)
				f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil, errCompile)
			},
			wantErr: errCompile,
		},
		{
			name: "Write",
			setup: func(f *fixture) {
				f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(echo(), nil)
				f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return("doc", nil)
				f.writer.EXPECT().Write(gomock.Any(), gomock.Any(), gomock.Any(), "doc").Return(errWrite)
			},
			wantErr: errWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			err := f.app.Compile(t.Context(), app.CompileOptions{Path: "pipeline.yaml", ArgumentsFile: tt.args})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestApp_Compile_Spans(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockComponentLoader(ctrl)
	compiler := mocks.NewMockCompiler(ctrl)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	component := pipeline(map[string]domain.TaskSpec{
		"a": {ComponentRef: domain.ComponentReference{Spec: echo()}},
		"b": {ComponentRef: domain.ComponentReference{Spec: echo()}},
	})
	errCompile := errors.New("boom")

	gomock.InOrder(
		tracer.EXPECT().Start(gomock.Any(), "pipec.load").DoAndReturn(
			func(ctx context.Context, _ string) (context.Context, ports.Span) { return ctx, span }),
		span.EXPECT().SetAttribute("path", "pipeline.yaml"),
		loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(component, nil),
		span.EXPECT().End(),
		tracer.EXPECT().Start(gomock.Any(), "pipec.compile").DoAndReturn(
			func(ctx context.Context, _ string) (context.Context, ports.Span) { return ctx, span }),
		span.EXPECT().SetAttribute("target", "argo"),
		span.EXPECT().SetAttribute("tasks", 2),
		compiler.EXPECT().Compile(component, gomock.Any()).Return(nil, errCompile),
		span.EXPECT().RecordError(errCompile),
		span.EXPECT().End(),
	)

	a := app.New(loader, compiler, mocks.NewMockDocumentWriter(ctrl), tracer, mocks.NewMockWatcher(ctrl), mocks.NewMockLogger(ctrl))
	err := a.Compile(t.Context(), app.CompileOptions{Path: "pipeline.yaml"})
	require.ErrorIs(t, err, errCompile)
}

func TestApp_Validate(t *testing.T) {
	f := newFixture(t)

	inner := pipeline(map[string]domain.TaskSpec{
		"say": {
			ComponentRef: domain.ComponentReference{Spec: echo()},
			Arguments:    map[string]domain.Argument{"msg": domain.GraphInput{InputName: "msg"}},
		},
	})
	root := pipeline(map[string]domain.TaskSpec{
		"first":  {ComponentRef: domain.ComponentReference{Spec: echo()}, Arguments: map[string]domain.Argument{"msg": domain.Literal("hi")}},
		"nested": {ComponentRef: domain.ComponentReference{Spec: inner}, Arguments: map[string]domain.Argument{"msg": domain.GraphInput{InputName: "msg"}}},
	})

	f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(root, nil)
	gomock.InOrder(
		f.logger.EXPECT().Info("Demo: 2 tasks in order first, nested"),
		f.logger.EXPECT().Info("task nested: 1 tasks in order say"),
	)

	require.NoError(t, f.app.Validate(t.Context(), "pipeline.yaml"))
}

func TestApp_Validate_NestedError(t *testing.T) {
	f := newFixture(t)

	inner := pipeline(map[string]domain.TaskSpec{
		"broken": {
			ComponentRef: domain.ComponentReference{Spec: echo()},
			Arguments:    map[string]domain.Argument{"msg": domain.TaskOutput{TaskID: "missing", OutputName: "out"}},
		},
	})
	root := pipeline(map[string]domain.TaskSpec{
		"nested": {ComponentRef: domain.ComponentReference{Spec: inner}},
	})

	f.loader.EXPECT().Load(gomock.Any(), "pipeline.yaml").Return(root, nil)
	f.logger.EXPECT().Info("Demo: 1 tasks in order nested")

	err := f.app.Validate(t.Context(), "pipeline.yaml")
	require.ErrorContains(t, err, domain.ErrDanglingReference.Error())

	var taskErr *domain.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, []string{"nested", "broken"}, taskErr.Path)
}

func TestApp_Validate_Container(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any(), "echo.yaml").Return(echo(), nil)
	f.logger.EXPECT().Info("Echo: container component is valid")

	require.NoError(t, f.app.Validate(t.Context(), "echo.yaml"))
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t)
	component := echo()
	errCompile := errors.New("bad edit")

	gomock.InOrder(
		f.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(component, nil),
		f.compiler.EXPECT().Compile(component, gomock.Any()).Return("doc", nil),
		f.writer.EXPECT().Write(gomock.Any(), domain.StdoutPath, domain.FormatYAML, "doc").Return(nil),
		f.logger.EXPECT().Info(gomock.Any()),
		f.watcher.EXPECT().Watch(gomock.Any(), gomock.Len(1), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ []string, onChange func([]string)) error {
				onChange([]string{"/p/pipeline.yaml"})
				return nil
			}),
	)
	f.logger.EXPECT().Info("change detected: /p/pipeline.yaml")
	f.loader.EXPECT().Load(gomock.Any(), gomock.Any()).Return(component, nil)
	f.compiler.EXPECT().Compile(component, gomock.Any()).Return(nil, errCompile)
	f.logger.EXPECT().Error(errCompile)

	require.NoError(t, f.app.Watch(t.Context(), app.CompileOptions{Path: "pipeline.yaml"}))
}

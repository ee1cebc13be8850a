// Package app implements the application layer for pipec.
package app

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"go.trai.ch/zerr"
)

// App loads, compiles and writes pipelines.
type App struct {
	loader   ports.ComponentLoader
	compiler ports.Compiler
	writer   ports.DocumentWriter
	tracer   ports.Tracer
	watcher  ports.Watcher
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ComponentLoader,
	compiler ports.Compiler,
	writer ports.DocumentWriter,
	tracer ports.Tracer,
	watcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		compiler: compiler,
		writer:   writer,
		tracer:   tracer,
		watcher:  watcher,
		logger:   log,
	}
}

// CompileOptions configures the compile command.
type CompileOptions struct {
	// Path is the root component file.
	Path string
	// Target selects the emitter. Empty means argo.
	Target domain.Target
	// Arguments override values read from ArgumentsFile.
	Arguments map[string]string
	// ArgumentsFile is an optional YAML mapping of pipeline arguments.
	ArgumentsFile string
	// Output is domain.StdoutPath, a file path or an s3:// URL.
	Output string
	// Format is the document encoding. Empty means yaml.
	Format domain.Format
	// OutputDirectory is the cloud storage root for pipeline outputs.
	OutputDirectory string
	// Name overrides the pipeline name.
	Name string
}

// Compile runs one load, compile and write cycle.
func (a *App) Compile(ctx context.Context, opts CompileOptions) error {
	args, err := a.arguments(opts)
	if err != nil {
		return err
	}

	component, err := a.load(ctx, opts.Path)
	if err != nil {
		return err
	}

	doc, err := a.compile(ctx, component, domain.CompileOptions{
		Target:          opts.Target,
		Arguments:       args,
		Name:            opts.Name,
		OutputDirectory: opts.OutputDirectory,
	})
	if err != nil {
		return err
	}

	if err := a.write(ctx, opts, doc); err != nil {
		return err
	}

	if opts.Output != "" && opts.Output != domain.StdoutPath {
		a.logger.Info(fmt.Sprintf("compiled %s to %s", opts.Path, opts.Output))
	}
	return nil
}

// Watch compiles once and again after every change in the component's
// directory until ctx is cancelled. Compile errors are logged, not returned.
func (a *App) Watch(ctx context.Context, opts CompileOptions) error {
	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", opts.Path)
	}

	dirs := []string{filepath.Dir(abs)}
	if opts.ArgumentsFile != "" {
		if argsAbs, err := filepath.Abs(opts.ArgumentsFile); err == nil {
			dirs = append(dirs, filepath.Dir(argsAbs))
		}
	}

	a.compileLogged(ctx, opts)
	a.logger.Info("watching " + strings.Join(dirs, ", "))

	return a.watcher.Watch(ctx, dirs, func(paths []string) {
		a.logger.Info("change detected: " + strings.Join(paths, ", "))
		a.compileLogged(ctx, opts)
	})
}

func (a *App) compileLogged(ctx context.Context, opts CompileOptions) {
	if err := a.Compile(ctx, opts); err != nil {
		a.logger.Error(err)
	}
}

// Validate loads the component at path, checks every graph it contains and
// logs the task order of each.
func (a *App) Validate(ctx context.Context, path string) error {
	component, err := a.load(ctx, path)
	if err != nil {
		return err
	}
	return a.validate(component, nil)
}

func (a *App) validate(component *domain.ComponentSpec, path []string) error {
	order, err := domain.ValidateGraph(component)
	if err != nil {
		return err
	}

	label := component.DisplayName(domain.DefaultPipelineName)
	if len(path) > 0 {
		label = "task " + strings.Join(path, "/")
	}
	if _, ok := component.Container(); ok {
		a.logger.Info(label + ": container component is valid")
		return nil
	}
	a.logger.Info(fmt.Sprintf("%s: %d tasks in order %s", label, len(order), strings.Join(order, ", ")))

	graph, _ := component.Graph()
	for _, id := range order {
		task := graph.Tasks[id]
		child := task.Component()
		if _, ok := child.Graph(); !ok {
			continue
		}
		if err := a.validate(child, append(slices.Clone(path), id)); err != nil {
			return domain.WrapTaskError(id, err)
		}
	}
	return nil
}

func (a *App) arguments(opts CompileOptions) (map[string]string, error) {
	args := make(map[string]string, len(opts.Arguments))
	if opts.ArgumentsFile != "" {
		fromFile, err := a.loader.LoadArguments(opts.ArgumentsFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(args, fromFile)
	}
	maps.Copy(args, opts.Arguments)
	return args, nil
}

func (a *App) load(ctx context.Context, path string) (*domain.ComponentSpec, error) {
	ctx, span := a.tracer.Start(ctx, "pipec.load")
	defer span.End()
	span.SetAttribute("path", path)

	component, err := a.loader.Load(ctx, path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return component, nil
}

func (a *App) compile(ctx context.Context, component *domain.ComponentSpec, opts domain.CompileOptions) (any, error) {
	_, span := a.tracer.Start(ctx, "pipec.compile")
	defer span.End()

	target := opts.Target
	if target == "" {
		target = domain.TargetArgo
	}
	span.SetAttribute("target", string(target))
	if graph, ok := component.Graph(); ok {
		span.SetAttribute("tasks", len(graph.Tasks))
	}

	doc, err := a.compiler.Compile(component, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return doc, nil
}

func (a *App) write(ctx context.Context, opts CompileOptions, doc any) error {
	ctx, span := a.tracer.Start(ctx, "pipec.write")
	defer span.End()

	dest := opts.Output
	if dest == "" {
		dest = domain.StdoutPath
	}
	span.SetAttribute("path", dest)

	format := opts.Format
	if format == "" {
		format = domain.FormatYAML
	}
	if err := a.writer.Write(ctx, dest, format, doc); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

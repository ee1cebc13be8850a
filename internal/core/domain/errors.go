package domain

import (
	"errors"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrUnknownPlaceholderKind is returned when a command-line placeholder has an unrecognised variant.
	ErrUnknownPlaceholderKind = zerr.New("unknown placeholder kind")

	// ErrUnsupportedRuntimeCondition is returned when an if-condition depends on a value only known at runtime.
	ErrUnsupportedRuntimeCondition = zerr.New("runtime condition unsupported")

	// ErrMissingRequiredArgument is returned when a required input has neither an argument nor a default.
	ErrMissingRequiredArgument = zerr.New("missing required argument")

	// ErrConstantArtifactUnsupported is returned when a literal is bound to an artifact input the target cannot inline.
	ErrConstantArtifactUnsupported = zerr.New("constant artifact arguments are not supported by this target")

	// ErrUnsupportedNestedGraph is returned when a target that only supports container tasks meets a graph task.
	ErrUnsupportedNestedGraph = zerr.New("nested graph components are not supported by this target")

	// ErrDanglingReference is returned when an argument references a task, output or input that does not exist.
	ErrDanglingReference = zerr.New("dangling reference")

	// ErrCyclicGraph is returned when the task dependencies of a graph contain a cycle.
	ErrCyclicGraph = zerr.New("cyclic graph")

	// ErrUnknownArgumentKind is returned when a task argument has an unrecognised variant.
	ErrUnknownArgumentKind = zerr.New("unknown argument kind")

	// ErrUnknownImplementation is returned when a component is neither a container nor a graph.
	ErrUnknownImplementation = zerr.New("unknown component implementation")

	// ErrUnresolvedComponentReference is returned when a task's component spec has not been loaded.
	ErrUnresolvedComponentReference = zerr.New("unresolved component reference")

	// ErrUnknownPipelineArgument is returned when a pipeline argument names no root input.
	ErrUnknownPipelineArgument = zerr.New("unknown pipeline argument")

	// ErrDuplicateInputName is returned when a component declares two inputs with the same name.
	ErrDuplicateInputName = zerr.New("duplicate input name")

	// ErrDuplicateOutputName is returned when a component declares two outputs with the same name.
	ErrDuplicateOutputName = zerr.New("duplicate output name")

	// ErrUnknownTarget is returned when no emitter exists for the requested target.
	ErrUnknownTarget = zerr.New("unknown compilation target")

	// ErrConfigReadFailed is returned when a component or arguments file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a component or arguments file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidPlaceholder is returned when a placeholder or condition node cannot be decoded.
	ErrInvalidPlaceholder = zerr.New("invalid placeholder")

	// ErrInvalidArgument is returned when a task argument node cannot be decoded.
	ErrInvalidArgument = zerr.New("invalid argument")

	// ErrInvalidComponentReference is returned when a componentRef has neither a spec nor a url.
	ErrInvalidComponentReference = zerr.New("invalid component reference")

	// ErrRemoteReferenceUnsupported is returned when a componentRef points at a remote location.
	ErrRemoteReferenceUnsupported = zerr.New("remote component references are not supported")

	// ErrDigestMismatch is returned when a referenced component file does not match its declared digest.
	ErrDigestMismatch = zerr.New("component digest mismatch")

	// ErrOutputWriteFailed is returned when a compiled document cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output")

	// ErrUnsupportedFormat is returned when an output format is neither yaml nor json.
	ErrUnsupportedFormat = zerr.New("unsupported output format")
)

// TaskError attributes a compile error to a task, possibly nested inside graph tasks.
type TaskError struct {
	Path []string
	Err  error
}

func (e *TaskError) Error() string {
	return strings.Join(e.Path, "/") + ": " + e.Err.Error()
}

// Message reports the task path without the cause.
func (e *TaskError) Message() string {
	return "task " + strings.Join(e.Path, "/")
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// WrapTaskError attributes err to taskID. If err is already attributed to a
// nested task, taskID is prepended to its path.
func WrapTaskError(taskID string, err error) error {
	if err == nil {
		return nil
	}
	var te *TaskError
	if errors.As(err, &te) {
		path := make([]string, 0, len(te.Path)+1)
		path = append(path, taskID)
		path = append(path, te.Path...)
		return &TaskError{Path: path, Err: te.Err}
	}
	return &TaskError{Path: []string{taskID}, Err: err}
}

// Package config loads component.yaml files into the pipeline IR.
package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

const fileScheme = "file://"

var _ ports.ComponentLoader = (*Loader)(nil)

// Loader implements ports.ComponentLoader for YAML component files.
type Loader struct {
	Logger ports.Logger
	fs     FileSystem
}

// NewLoader creates a new Loader reading from the local filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, fs: fsys}
}

// Load reads the component at path and dereferences every componentRef below it.
// Files are re-read on every call.
func (l *Loader) Load(ctx context.Context, path string) (*domain.ComponentSpec, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}
	s := &session{loader: l, documents: make(map[string]*document)}
	spec, _, err := s.component(ctx, abs, nil)
	return spec, err
}

// LoadArguments reads a flat YAML mapping of pipeline argument names to scalar values.
func (l *Loader) LoadArguments(path string) (map[string]string, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	args := make(map[string]string, len(nodes))
	for name, n := range nodes {
		if n.Kind != yaml.ScalarNode {
			err := zerr.With(domain.ErrInvalidArgument, "argument", name)
			return nil, zerr.With(err, "path", path)
		}
		args[name] = n.Value
	}
	return args, nil
}

// document is a parsed component file and the sha256 digest of its bytes.
type document struct {
	file   *ComponentFile
	digest string
}

// session is the state of one Load call. Each file is read and parsed once,
// even when several tasks reference it concurrently.
type session struct {
	loader *Loader

	group     singleflight.Group
	mu        sync.Mutex
	documents map[string]*document
}

func (s *session) read(path string) (*document, error) {
	result, err, _ := s.group.Do(path, func() (any, error) {
		s.mu.Lock()
		doc, ok := s.documents[path]
		s.mu.Unlock()
		if ok {
			return doc, nil
		}

		data, err := s.loader.fs.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
		}

		var file ComponentFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
		}

		sum := sha256.Sum256(data)
		doc = &document{file: &file, digest: hex.EncodeToString(sum[:])}

		s.mu.Lock()
		s.documents[path] = doc
		s.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*document), nil
}

// component loads the file at path. chain holds the files that led here and
// is used to reject reference cycles.
func (s *session) component(ctx context.Context, path string, chain []string) (*domain.ComponentSpec, string, error) {
	if slices.Contains(chain, path) {
		err := zerr.With(domain.ErrInvalidComponentReference, "cycle", strings.Join(append(chain, path), " -> "))
		return nil, "", err
	}

	doc, err := s.read(path)
	if err != nil {
		return nil, "", err
	}

	spec, err := s.convert(ctx, doc.file, filepath.Dir(path), append(slices.Clone(chain), path))
	if err != nil {
		return nil, "", zerr.With(err, "path", path)
	}
	return spec, doc.digest, nil
}

func (s *session) convert(ctx context.Context, file *ComponentFile, dir string, chain []string) (*domain.ComponentSpec, error) {
	spec := &domain.ComponentSpec{
		Name:        file.Name,
		Description: file.Description,
	}

	for i := range file.Inputs {
		dto := &file.Inputs[i]
		typ, err := decodeType(&dto.Type)
		if err != nil {
			return nil, zerr.With(err, "input", dto.Name)
		}
		spec.Inputs = append(spec.Inputs, domain.InputSpec{
			Name:        dto.Name,
			Description: dto.Description,
			Type:        typ,
			Default:     dto.Default,
			Optional:    dto.Optional,
		})
	}
	for i := range file.Outputs {
		dto := &file.Outputs[i]
		typ, err := decodeType(&dto.Type)
		if err != nil {
			return nil, zerr.With(err, "output", dto.Name)
		}
		spec.Outputs = append(spec.Outputs, domain.OutputSpec{Name: dto.Name, Description: dto.Description, Type: typ})
	}

	impl := file.Implementation
	switch {
	case impl.Container != nil && impl.Graph != nil:
		return nil, zerr.With(domain.ErrUnknownImplementation, "component", file.Name)
	case impl.Container != nil:
		container, err := convertContainer(impl.Container)
		if err != nil {
			return nil, err
		}
		spec.Implementation = container
	case impl.Graph != nil:
		graph, err := s.convertGraph(ctx, impl.Graph, dir, chain)
		if err != nil {
			return nil, err
		}
		spec.Implementation = graph
	default:
		return nil, zerr.With(domain.ErrUnknownImplementation, "component", file.Name)
	}
	return spec, nil
}

func convertContainer(dto *ContainerDTO) (*domain.ContainerSpec, error) {
	command, err := decodePlaceholders(dto.Command)
	if err != nil {
		return nil, zerr.With(err, "field", "command")
	}
	args, err := decodePlaceholders(dto.Args)
	if err != nil {
		return nil, zerr.With(err, "field", "args")
	}

	container := &domain.ContainerSpec{Image: dto.Image, Command: command, Args: args}
	if len(dto.Env) > 0 {
		container.Env = make(map[string]domain.Placeholder, len(dto.Env))
		for name, n := range dto.Env {
			p, err := decodePlaceholder(&n)
			if err != nil {
				return nil, zerr.With(err, "env", name)
			}
			container.Env[name] = p
		}
	}
	return container, nil
}

func (s *session) convertGraph(ctx context.Context, dto *GraphDTO, dir string, chain []string) (*domain.GraphSpec, error) {
	ids := slices.Sorted(maps.Keys(dto.Tasks))
	tasks := make([]domain.TaskSpec, len(ids))
	for i, id := range ids {
		args := make(map[string]domain.Argument, len(dto.Tasks[id].Arguments))
		for name, n := range dto.Tasks[id].Arguments {
			arg, err := decodeArgument(&n)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "argument", name), "task", id)
			}
			args[name] = arg
		}
		tasks[i].Arguments = args
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, id := range ids {
		componentRef := dto.Tasks[id].ComponentRef
		g.Go(func() error {
			ref, err := s.reference(ctx, id, &componentRef, dir, chain)
			if err != nil {
				return zerr.With(err, "task", id)
			}
			tasks[i].ComponentRef = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := &domain.GraphSpec{Tasks: make(map[string]domain.TaskSpec, len(ids))}
	for i, id := range ids {
		graph.Tasks[id] = tasks[i]
	}

	if len(dto.OutputValues) > 0 {
		graph.OutputValues = make(map[string]domain.TaskOutput, len(dto.OutputValues))
		for name, n := range dto.OutputValues {
			ref, err := decodeOutputValue(&n)
			if err != nil {
				return nil, zerr.With(err, "output", name)
			}
			graph.OutputValues[name] = ref
		}
	}
	return graph, nil
}

// reference dereferences a componentRef. Inline specs win over URLs; local
// paths are resolved relative to dir.
func (s *session) reference(
	ctx context.Context,
	taskID string,
	dto *ComponentRefDTO,
	dir string,
	chain []string,
) (domain.ComponentReference, error) {
	ref := domain.ComponentReference{Name: dto.Name, Digest: dto.Digest, Tag: dto.Tag, URL: dto.URL}

	if dto.Spec != nil {
		if dto.URL != "" {
			s.loader.Logger.Warn(fmt.Sprintf("task %s: componentRef has both url and spec, using spec", taskID))
		}
		spec, err := s.convert(ctx, dto.Spec, dir, chain)
		if err != nil {
			return ref, err
		}
		ref.Spec = spec
		return ref, nil
	}

	path, err := localPath(dto.URL, dir)
	if err != nil {
		return ref, err
	}
	if err := ctx.Err(); err != nil {
		return ref, err
	}

	spec, digest, err := s.component(ctx, path, chain)
	if err != nil {
		return ref, err
	}
	if err := verifyDigest(dto.Digest, digest); err != nil {
		return ref, zerr.With(err, "url", dto.URL)
	}
	ref.Spec = spec
	return ref, nil
}

func localPath(url, dir string) (string, error) {
	switch {
	case url == "":
		return "", zerr.With(domain.ErrInvalidComponentReference, "reason", "componentRef needs url or spec")
	case strings.HasPrefix(url, fileScheme):
		url = strings.TrimPrefix(url, fileScheme)
	case strings.Contains(url, "://"):
		return "", zerr.With(domain.ErrRemoteReferenceUnsupported, "url", url)
	}
	if filepath.IsAbs(url) {
		return filepath.Clean(url), nil
	}
	return filepath.Join(dir, url), nil
}

// verifyDigest compares a "sha256:<hex>" or bare hex digest against got.
func verifyDigest(want, got string) error {
	if want == "" {
		return nil
	}
	want = strings.TrimPrefix(strings.ToLower(want), "sha256:")
	if want != got {
		err := zerr.With(domain.ErrDigestMismatch, "expected", want)
		return zerr.With(err, "actual", got)
	}
	return nil
}

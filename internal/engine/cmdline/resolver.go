// Package cmdline expands a container's templated command line into concrete
// tokens for one task, and records how each input is consumed.
package cmdline

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"go.trai.ch/zerr"
	"k8s.io/apimachinery/pkg/util/sets"
)

// ConcatMode selects how a Concat placeholder combines its items.
type ConcatMode int

const (
	// JoinConcat joins every token of every item into a single token.
	JoinConcat ConcatMode = iota
	// ElementwiseConcat combines the items' token lists pairwise, one token per combination.
	ElementwiseConcat
)

// Accessors renders the target-specific tokens that stand for inputs and outputs.
type Accessors interface {
	InputValue(name string) string
	InputPath(name string) string
	OutputPath(name string) string
	ConcatMode() ConcatMode
}

// ArtifactValueAccessors is implemented by targets that can read an upstream
// artifact's contents inline. For such targets an InputValue bound to a task
// output is consumed by path and rendered with ArtifactValue. Neither built-in
// target does: argo inserts converter tasks and vertex passes the output as a
// parameter. It is the hook for a target that can.
type ArtifactValueAccessors interface {
	Accessors
	ArtifactValue(name string) string
}

// Result is the resolved command line of one task.
type Result struct {
	Command []string
	Args    []string
	Env     map[string]string

	ConsumedByValue sets.Set[string]
	ConsumedByPath  sets.Set[string]
	ProducedOutputs sets.Set[string]
}

type resolver struct {
	bindings map[string]domain.Argument
	acc      Accessors
	result   *Result
}

// Resolve expands command, args and env of container against bindings.
// bindings must already include defaults; an input missing from it counts as absent.
func Resolve(container *domain.ContainerSpec, bindings map[string]domain.Argument, acc Accessors) (*Result, error) {
	r := &resolver{
		bindings: bindings,
		acc:      acc,
		result: &Result{
			ConsumedByValue: sets.New[string](),
			ConsumedByPath:  sets.New[string](),
			ProducedOutputs: sets.New[string](),
		},
	}

	var err error
	if r.result.Command, err = r.expandList(container.Command); err != nil {
		return nil, zerr.With(err, "field", "command")
	}
	if r.result.Args, err = r.expandList(container.Args); err != nil {
		return nil, zerr.With(err, "field", "args")
	}

	if len(container.Env) > 0 {
		r.result.Env = make(map[string]string, len(container.Env))
		for _, name := range slices.Sorted(maps.Keys(container.Env)) {
			tokens, err := r.expand(container.Env[name])
			if err != nil {
				return nil, zerr.With(err, "env", name)
			}
			r.result.Env[name] = strings.Join(tokens, "")
		}
	}

	return r.result, nil
}

func (r *resolver) expandList(items []domain.Placeholder) ([]string, error) {
	if items == nil {
		return nil, nil
	}
	tokens := make([]string, 0, len(items))
	for _, item := range items {
		expanded, err := r.expand(item)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, expanded...)
	}
	return tokens, nil
}

func (r *resolver) expand(p domain.Placeholder) ([]string, error) {
	switch p := p.(type) {
	case domain.Literal:
		return []string{string(p)}, nil

	case domain.InputValue:
		if av, ok := r.acc.(ArtifactValueAccessors); ok {
			if _, fromTask := r.bindings[p.Name].(domain.TaskOutput); fromTask {
				r.result.ConsumedByPath.Insert(p.Name)
				return []string{av.ArtifactValue(p.Name)}, nil
			}
		}
		r.result.ConsumedByValue.Insert(p.Name)
		return []string{r.acc.InputValue(p.Name)}, nil

	case domain.InputPath:
		r.result.ConsumedByPath.Insert(p.Name)
		return []string{r.acc.InputPath(p.Name)}, nil

	case domain.OutputPath:
		r.result.ProducedOutputs.Insert(p.Name)
		return []string{r.acc.OutputPath(p.Name)}, nil

	case domain.Concat:
		return r.concat(p.Items)

	case domain.If:
		holds, err := r.evaluate(p.Cond)
		if err != nil {
			return nil, err
		}
		branch := p.Else
		if holds {
			branch = p.Then
		}
		return r.expandList(branch)

	default:
		return nil, zerr.With(domain.ErrUnknownPlaceholderKind, "placeholder", fmt.Sprintf("%T", p))
	}
}

func (r *resolver) concat(items []domain.Placeholder) ([]string, error) {
	if r.acc.ConcatMode() == JoinConcat {
		var b strings.Builder
		for _, item := range items {
			tokens, err := r.expand(item)
			if err != nil {
				return nil, err
			}
			for _, tok := range tokens {
				b.WriteString(tok)
			}
		}
		return []string{b.String()}, nil
	}

	combined := []string{""}
	for _, item := range items {
		tokens, err := r.expand(item)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}
		next := make([]string, 0, len(combined)*len(tokens))
		for _, prefix := range combined {
			for _, tok := range tokens {
				next = append(next, prefix+tok)
			}
		}
		combined = next
	}
	return combined, nil
}

func (r *resolver) evaluate(c domain.Condition) (bool, error) {
	switch c := c.(type) {
	case domain.BoolLiteral:
		return bool(c), nil
	case domain.Literal:
		return isTrue(string(c)), nil
	case domain.IsPresent:
		_, ok := r.bindings[c.Name]
		return ok, nil
	case domain.InputValue:
		arg, ok := r.bindings[c.Name]
		if !ok {
			return false, nil
		}
		lit, ok := arg.(domain.Literal)
		if !ok {
			return false, zerr.With(domain.ErrUnsupportedRuntimeCondition, "input", c.Name)
		}
		return isTrue(string(lit)), nil
	default:
		return false, zerr.With(domain.ErrUnknownPlaceholderKind, "condition", fmt.Sprintf("%T", c))
	}
}

func isTrue(s string) bool {
	return strings.EqualFold(s, "true")
}

// CheckReferences verifies that every input and output the command line
// references is declared by component.
func (r *Result) CheckReferences(component *domain.ComponentSpec) error {
	for _, name := range sets.List(r.ConsumedByValue.Union(r.ConsumedByPath)) {
		if _, ok := component.Input(name); !ok {
			return zerr.With(domain.ErrDanglingReference, "input", name)
		}
	}
	for _, name := range sets.List(r.ProducedOutputs) {
		if _, ok := component.Output(name); !ok {
			return zerr.With(domain.ErrDanglingReference, "output", name)
		}
	}
	return nil
}

package config

import (
	"strconv"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// singleEntry returns the key and value of a one-entry mapping node.
func singleEntry(n *yaml.Node) (string, *yaml.Node, bool) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, false
	}
	return n.Content[0].Value, n.Content[1], true
}

func scalarName(n *yaml.Node, base error, kind string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", invalid(base, n, kind)
	}
	return n.Value, nil
}

func invalid(base error, n *yaml.Node, kind string) error {
	err := zerr.With(base, "kind", kind)
	return zerr.With(err, "line", n.Line)
}

func decodePlaceholders(nodes []yaml.Node) ([]domain.Placeholder, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]domain.Placeholder, 0, len(nodes))
	for i := range nodes {
		p, err := decodePlaceholder(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// decodeBranch accepts either a single placeholder or a list of them.
func decodeBranch(n *yaml.Node) ([]domain.Placeholder, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.SequenceNode:
		items := make([]yaml.Node, len(n.Content))
		for i, c := range n.Content {
			items[i] = *c
		}
		return decodePlaceholders(items)
	default:
		p, err := decodePlaceholder(n)
		if err != nil {
			return nil, err
		}
		return []domain.Placeholder{p}, nil
	}
}

func decodePlaceholder(n *yaml.Node) (domain.Placeholder, error) {
	if n.Kind == yaml.ScalarNode {
		return domain.Literal(n.Value), nil
	}

	key, value, ok := singleEntry(n)
	if !ok {
		return nil, invalid(domain.ErrInvalidPlaceholder, n, "placeholder")
	}

	switch key {
	case "inputValue":
		name, err := scalarName(value, domain.ErrInvalidPlaceholder, key)
		return domain.InputValue{Name: name}, err
	case "inputPath":
		name, err := scalarName(value, domain.ErrInvalidPlaceholder, key)
		return domain.InputPath{Name: name}, err
	case "outputPath":
		name, err := scalarName(value, domain.ErrInvalidPlaceholder, key)
		return domain.OutputPath{Name: name}, err
	case "concat":
		if value.Kind != yaml.SequenceNode {
			return nil, invalid(domain.ErrInvalidPlaceholder, value, key)
		}
		items, err := decodeBranch(value)
		if err != nil {
			return nil, err
		}
		return domain.Concat{Items: items}, nil
	case "if":
		return decodeIf(value)
	default:
		return nil, invalid(domain.ErrInvalidPlaceholder, n, key)
	}
}

func decodeIf(n *yaml.Node) (domain.Placeholder, error) {
	var dto ifDTO
	if err := n.Decode(&dto); err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidPlaceholder.Error())
	}
	cond, err := decodeCondition(&dto.Cond)
	if err != nil {
		return nil, err
	}
	then, err := decodeBranch(&dto.Then)
	if err != nil {
		return nil, err
	}
	els, err := decodeBranch(&dto.Else)
	if err != nil {
		return nil, err
	}
	return domain.If{Cond: cond, Then: then, Else: els}, nil
}

func decodeCondition(n *yaml.Node) (domain.Condition, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag == "!!bool" {
			b, err := strconv.ParseBool(n.Value)
			if err == nil {
				return domain.BoolLiteral(b), nil
			}
		}
		return domain.Literal(n.Value), nil
	}

	key, value, ok := singleEntry(n)
	if !ok {
		return nil, invalid(domain.ErrInvalidPlaceholder, n, "condition")
	}
	switch key {
	case "isPresent":
		name, err := scalarName(value, domain.ErrInvalidPlaceholder, key)
		return domain.IsPresent{Name: name}, err
	case "inputValue":
		name, err := scalarName(value, domain.ErrInvalidPlaceholder, key)
		return domain.InputValue{Name: name}, err
	default:
		return nil, invalid(domain.ErrInvalidPlaceholder, n, key)
	}
}

func decodeArgument(n *yaml.Node) (domain.Argument, error) {
	if n.Kind == yaml.ScalarNode {
		return domain.Literal(n.Value), nil
	}

	key, value, ok := singleEntry(n)
	if !ok {
		return nil, invalid(domain.ErrInvalidArgument, n, "argument")
	}
	switch key {
	case "graphInput":
		var dto graphInputDTO
		if err := value.Decode(&dto); err != nil || dto.InputName == "" {
			return nil, invalid(domain.ErrInvalidArgument, value, key)
		}
		return domain.GraphInput{InputName: dto.InputName}, nil
	case "taskOutput":
		return decodeTaskOutput(value)
	default:
		return nil, invalid(domain.ErrInvalidArgument, n, key)
	}
}

func decodeTaskOutput(n *yaml.Node) (domain.TaskOutput, error) {
	var dto taskOutputDTO
	if err := n.Decode(&dto); err != nil || dto.TaskID == "" || dto.OutputName == "" {
		return domain.TaskOutput{}, invalid(domain.ErrInvalidArgument, n, "taskOutput")
	}
	return domain.TaskOutput{TaskID: dto.TaskID, OutputName: dto.OutputName}, nil
}

// decodeOutputValue accepts both {taskOutput: {...}} and a bare {taskId, outputName} mapping.
func decodeOutputValue(n *yaml.Node) (domain.TaskOutput, error) {
	if key, value, ok := singleEntry(n); ok && key == "taskOutput" {
		return decodeTaskOutput(value)
	}
	return decodeTaskOutput(n)
}

func decodeType(n *yaml.Node) (domain.TypeSpec, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		return domain.TypeName(n.Value), nil
	case yaml.MappingNode:
		var structured map[string]any
		if err := n.Decode(&structured); err != nil {
			return nil, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		}
		return domain.StructuredType(structured), nil
	default:
		return nil, zerr.With(domain.ErrConfigParseFailed, "line", n.Line)
	}
}

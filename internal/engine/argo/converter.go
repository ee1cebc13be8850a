package argo

const (
	// ConverterTemplateKey names the shared artifact-to-value template.
	ConverterTemplateKey = "convert-artifact-to-value"

	// ConverterImage runs the converter template.
	ConverterImage = "alpine"

	converterInput  = "artifact"
	converterOutput = "value"
)

func converterTemplate() Template {
	in := inputArtifactPath(converterInput)
	out := outputArtifactPath(converterOutput)
	return Template{
		Inputs: &Inputs{
			Artifacts: []Artifact{{Name: converterInput, Path: in}},
		},
		Outputs: &Outputs{
			Parameters: []Parameter{{Name: converterOutput, ValueFrom: &ValueFrom{Path: out}}},
		},
		Container: &Container{
			Image:   ConverterImage,
			Command: []string{"sh", "-ec", `mkdir -p "$(dirname "$1")"; cp "$0" "$1"`, in, out},
		},
	}
}

// convert returns the value reference of a converter task reading source.
// Converter tasks reading the same source within one DAG are shared.
func (b *dagBuilder) convert(prefix, source string) (string, error) {
	tpl, err := b.c.shared(ConverterTemplateKey, converterTemplate)
	if err != nil {
		return "", err
	}

	args := &Arguments{Artifacts: []Artifact{{Name: converterInput, From: source}}}
	task := DAGTask{Template: tpl, Arguments: args, Dependencies: dependencies(args, b.exists(""))}

	name, reused, err := b.tasks.Allocate(prefix, task)
	if err != nil {
		return "", err
	}
	if !reused {
		task.Name = name
		b.pending = append(b.pending, task)
	}
	return taskParameter(name, converterOutput), nil
}

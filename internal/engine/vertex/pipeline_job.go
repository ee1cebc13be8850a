package vertex

import "github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/build"

const (
	// SchemaVersion is the pipeline spec schema the emitter targets.
	SchemaVersion = "2.0.0"
	// SDKName prefixes the compiler version in emitted documents.
	SDKName = "pipec"

	// ParameterTypeString is the only parameter type emitted.
	ParameterTypeString = "STRING"
	// ArtifactSchemaVersion is the version of every artifact type schema.
	ArtifactSchemaVersion = "0.0.1"
)

// SDKVersion identifies the compiler build in emitted documents.
func SDKVersion() string {
	return SDKName + "-" + build.Version
}

// PipelineJob is the subset of the Vertex AI PipelineJob resource the compiler emits.
type PipelineJob struct {
	DisplayName   string        `json:"displayName"`
	PipelineSpec  PipelineSpec  `json:"pipelineSpec"`
	RuntimeConfig RuntimeConfig `json:"runtimeConfig"`
}

// PipelineSpec holds the components, executors and root DAG of a pipeline.
type PipelineSpec struct {
	PipelineInfo   PipelineInfo             `json:"pipelineInfo"`
	SchemaVersion  string                   `json:"schemaVersion"`
	SDKVersion     string                   `json:"sdkVersion"`
	Components     map[string]ComponentSpec `json:"components"`
	DeploymentSpec DeploymentSpec           `json:"deploymentSpec"`
	Root           ComponentSpec            `json:"root"`
}

// PipelineInfo names the pipeline.
type PipelineInfo struct {
	Name string `json:"name"`
}

// DeploymentSpec maps executor labels to executors.
type DeploymentSpec struct {
	Executors map[string]ExecutorSpec `json:"executors"`
}

// ExecutorSpec runs a container.
type ExecutorSpec struct {
	Container *ContainerSpec `json:"container"`
}

// ContainerSpec is the executable part of an executor.
type ContainerSpec struct {
	Image   string   `json:"image"`
	Command []string `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Env     []EnvVar `json:"env,omitempty"`
}

// EnvVar is a container environment variable.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ComponentSpec is either an executor-backed component or the root DAG.
type ComponentSpec struct {
	InputDefinitions  *Definitions `json:"inputDefinitions,omitempty"`
	OutputDefinitions *Definitions `json:"outputDefinitions,omitempty"`
	ExecutorLabel     string       `json:"executorLabel,omitempty"`
	DAG               *DAGSpec     `json:"dag,omitempty"`
}

// Definitions declares the parameters and artifacts of a component.
type Definitions struct {
	Parameters map[string]ParameterSpec `json:"parameters,omitempty"`
	Artifacts  map[string]ArtifactSpec  `json:"artifacts,omitempty"`
}

// ParameterSpec declares a parameter.
type ParameterSpec struct {
	ParameterType string `json:"parameterType"`
	IsOptional    bool   `json:"isOptional,omitempty"`
}

// ArtifactSpec declares an artifact.
type ArtifactSpec struct {
	ArtifactType ArtifactType `json:"artifactType"`
	IsOptional   bool         `json:"isOptional,omitempty"`
}

// ArtifactType is the schema of an artifact.
type ArtifactType struct {
	SchemaTitle   string `json:"schemaTitle"`
	SchemaVersion string `json:"schemaVersion"`
}

// DAGSpec is the task graph of the root component.
type DAGSpec struct {
	Tasks   map[string]TaskSpec `json:"tasks"`
	Outputs *DAGOutputs         `json:"outputs,omitempty"`
}

// DAGOutputs selects the task outputs exposed by the DAG.
type DAGOutputs struct {
	Artifacts map[string]DAGOutputArtifact `json:"artifacts"`
}

// DAGOutputArtifact selects the producers of one DAG output.
type DAGOutputArtifact struct {
	ArtifactSelectors []ArtifactSelector `json:"artifactSelectors"`
}

// ArtifactSelector points at one task output artifact.
type ArtifactSelector struct {
	ProducerSubtask   string `json:"producerSubtask"`
	OutputArtifactKey string `json:"outputArtifactKey"`
}

// TaskSpec is one node of the root DAG.
type TaskSpec struct {
	TaskInfo       TaskInfo     `json:"taskInfo"`
	ComponentRef   ComponentRef `json:"componentRef"`
	Inputs         *TaskInputs  `json:"inputs,omitempty"`
	DependentTasks []string     `json:"dependentTasks,omitempty"`
}

// TaskInfo carries the display name of a task.
type TaskInfo struct {
	Name string `json:"name"`
}

// ComponentRef names a component in PipelineSpec.Components.
type ComponentRef struct {
	Name string `json:"name"`
}

// TaskInputs binds arguments to the inputs of a task.
type TaskInputs struct {
	Parameters map[string]ParameterArgument `json:"parameters,omitempty"`
	Artifacts  map[string]ArtifactArgument  `json:"artifacts,omitempty"`
}

// ParameterArgument sets exactly one of its fields.
type ParameterArgument struct {
	ComponentInputParameter string               `json:"componentInputParameter,omitempty"`
	TaskOutputParameter     *TaskOutputParameter `json:"taskOutputParameter,omitempty"`
	RuntimeValue            *RuntimeValue        `json:"runtimeValue,omitempty"`
}

// TaskOutputParameter reads an output of an upstream task as a value.
type TaskOutputParameter struct {
	ProducerTask       string `json:"producerTask"`
	OutputParameterKey string `json:"outputParameterKey"`
}

// RuntimeValue is a constant parameter value.
type RuntimeValue struct {
	ConstantValue Value `json:"constantValue"`
}

// Value wraps a string value.
type Value struct {
	StringValue string `json:"stringValue"`
}

// ArtifactArgument sets exactly one of its fields.
type ArtifactArgument struct {
	TaskOutputArtifact *TaskOutputArtifact `json:"taskOutputArtifact,omitempty"`
	// Raw carries inline artifact data.
	Raw *string `json:"raw,omitempty"`
}

// TaskOutputArtifact reads an output artifact of an upstream task.
type TaskOutputArtifact struct {
	ProducerTask      string `json:"producerTask"`
	OutputArtifactKey string `json:"outputArtifactKey"`
}

// RuntimeConfig carries the pipeline arguments of a job.
type RuntimeConfig struct {
	Parameters         map[string]Value `json:"parameters,omitempty"`
	GCSOutputDirectory string           `json:"gcsOutputDirectory,omitempty"`
}

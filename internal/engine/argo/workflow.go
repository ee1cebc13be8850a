package argo

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// APIVersion is the Argo Workflows API group version.
	APIVersion = "argoproj.io/v1alpha1"
	// Kind is the kind of the emitted document.
	Kind = "Workflow"
	// PipelineNameAnnotation records the unsanitized pipeline name.
	PipelineNameAnnotation = "pipelines.cloud-pipelines.net/pipeline-name"
)

// Workflow is the subset of the Argo Workflow resource the compiler emits.
type Workflow struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata"`

	Spec WorkflowSpec `json:"spec"`
}

// WorkflowSpec holds the templates and the entrypoint of a workflow.
type WorkflowSpec struct {
	Entrypoint string     `json:"entrypoint"`
	Templates  []Template `json:"templates"`
	Arguments  *Arguments `json:"arguments,omitempty"`
}

// Template is either a container template or a DAG template.
type Template struct {
	Name      string       `json:"name"`
	Inputs    *Inputs      `json:"inputs,omitempty"`
	Outputs   *Outputs     `json:"outputs,omitempty"`
	Container *Container   `json:"container,omitempty"`
	DAG       *DAGTemplate `json:"dag,omitempty"`
}

// Inputs declares the parameters and artifacts a template accepts.
type Inputs struct {
	Parameters []Parameter `json:"parameters,omitempty"`
	Artifacts  []Artifact  `json:"artifacts,omitempty"`
}

// Outputs declares the parameters and artifacts a template produces.
type Outputs Inputs

// Arguments binds values to the inputs of a template.
type Arguments Inputs

// Parameter is a small string value.
type Parameter struct {
	Name      string     `json:"name"`
	Value     *string    `json:"value,omitempty"`
	Default   *string    `json:"default,omitempty"`
	ValueFrom *ValueFrom `json:"valueFrom,omitempty"`
}

// ValueFrom reads an output parameter from a file in the container.
type ValueFrom struct {
	Path string `json:"path"`
}

// Artifact is a file passed between templates.
type Artifact struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	From     string `json:"from,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// Container is the executable part of a container template.
type Container struct {
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

// DAGTemplate runs tasks in dependency order.
type DAGTemplate struct {
	Tasks []DAGTask `json:"tasks"`
}

// DAGTask is one node of a DAG template.
type DAGTask struct {
	Name         string     `json:"name"`
	Template     string     `json:"template"`
	Arguments    *Arguments `json:"arguments,omitempty"`
	Dependencies []string   `json:"dependencies,omitempty"`
}

package config

import "gopkg.in/yaml.v3"

// ComponentFile represents the structure of a component.yaml file.
// Placeholders, arguments and types are tagged unions and stay as raw nodes
// until they are decoded.
type ComponentFile struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Inputs         []InputDTO        `yaml:"inputs"`
	Outputs        []OutputDTO       `yaml:"outputs"`
	Implementation ImplementationDTO `yaml:"implementation"`
}

// InputDTO represents a component input.
type InputDTO struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Type        yaml.Node `yaml:"type"`
	Default     *string   `yaml:"default"`
	Optional    bool      `yaml:"optional"`
}

// OutputDTO represents a component output.
type OutputDTO struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Type        yaml.Node `yaml:"type"`
}

// ImplementationDTO holds exactly one of Container or Graph.
type ImplementationDTO struct {
	Container *ContainerDTO `yaml:"container"`
	Graph     *GraphDTO     `yaml:"graph"`
}

// ContainerDTO represents a container implementation.
type ContainerDTO struct {
	Image   string               `yaml:"image"`
	Command []yaml.Node          `yaml:"command"`
	Args    []yaml.Node          `yaml:"args"`
	Env     map[string]yaml.Node `yaml:"env"`
}

// GraphDTO represents a graph implementation.
type GraphDTO struct {
	Tasks        map[string]TaskDTO   `yaml:"tasks"`
	OutputValues map[string]yaml.Node `yaml:"outputValues"`
}

// TaskDTO represents a task of a graph.
type TaskDTO struct {
	ComponentRef ComponentRefDTO      `yaml:"componentRef"`
	Arguments    map[string]yaml.Node `yaml:"arguments"`
}

// ComponentRefDTO points at the component a task runs, either inline or by URL.
type ComponentRefDTO struct {
	Name   string         `yaml:"name"`
	Digest string         `yaml:"digest"`
	Tag    string         `yaml:"tag"`
	URL    string         `yaml:"url"`
	Spec   *ComponentFile `yaml:"spec"`
}

// graphInputDTO is the body of a {graphInput: ...} argument.
type graphInputDTO struct {
	InputName string `yaml:"inputName"`
}

// taskOutputDTO is the body of a {taskOutput: ...} argument.
type taskOutputDTO struct {
	TaskID     string `yaml:"taskId"`
	OutputName string `yaml:"outputName"`
}

// ifDTO is the body of an {if: ...} placeholder.
type ifDTO struct {
	Cond yaml.Node `yaml:"cond"`
	Then yaml.Node `yaml:"then"`
	Else yaml.Node `yaml:"else"`
}

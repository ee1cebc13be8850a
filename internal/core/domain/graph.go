package domain

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ValidateGraph checks the references of a graph component and returns its
// task ids in dependency order. Tasks become ready once every task they
// consume an output of has been ordered; ties are broken lexicographically,
// so the order is fully deterministic.
// A container component has no tasks and yields an empty order.
func ValidateGraph(component *ComponentSpec) ([]string, error) {
	if err := component.Validate(); err != nil {
		return nil, err
	}
	graph, ok := component.Graph()
	if !ok {
		return nil, nil
	}

	ids := slices.Sorted(maps.Keys(graph.Tasks))
	deps := make(map[string][]string, len(ids))
	for _, id := range ids {
		task := graph.Tasks[id]
		taskDeps, err := validateTask(component, graph, &task)
		if err != nil {
			return nil, WrapTaskError(id, err)
		}
		deps[id] = taskDeps
	}

	for _, name := range slices.Sorted(maps.Keys(graph.OutputValues)) {
		if _, ok := component.Output(name); !ok {
			return nil, zerr.With(ErrDanglingReference, "graph_output", name)
		}
		if err := checkTaskOutput(graph, graph.OutputValues[name]); err != nil {
			return nil, zerr.With(err, "graph_output", name)
		}
	}

	return topologicalOrder(ids, deps)
}

// validateTask checks a single task and returns the sorted ids of the tasks it depends on.
func validateTask(parent *ComponentSpec, graph *GraphSpec, task *TaskSpec) ([]string, error) {
	component := task.Component()
	if component == nil {
		return nil, zerr.With(ErrUnresolvedComponentReference, "url", task.ComponentRef.URL)
	}
	if err := component.Validate(); err != nil {
		return nil, err
	}

	var deps []string
	for _, name := range slices.Sorted(maps.Keys(task.Arguments)) {
		if _, ok := component.Input(name); !ok {
			return nil, zerr.With(ErrDanglingReference, "input", name)
		}
		switch arg := task.Arguments[name].(type) {
		case Literal:
		case GraphInput:
			if _, ok := parent.Input(arg.InputName); !ok {
				return nil, zerr.With(ErrDanglingReference, "graph_input", arg.InputName)
			}
		case TaskOutput:
			if err := checkTaskOutput(graph, arg); err != nil {
				return nil, zerr.With(err, "input", name)
			}
			if !slices.Contains(deps, arg.TaskID) {
				deps = append(deps, arg.TaskID)
			}
		default:
			return nil, zerr.With(ErrUnknownArgumentKind, "input", name)
		}
	}
	slices.Sort(deps)
	return deps, nil
}

func checkTaskOutput(graph *GraphSpec, ref TaskOutput) error {
	producer, ok := graph.Tasks[ref.TaskID]
	if !ok {
		return zerr.With(ErrDanglingReference, "task", ref.TaskID)
	}
	component := producer.Component()
	if component == nil {
		return zerr.With(ErrUnresolvedComponentReference, "task", ref.TaskID)
	}
	if _, ok := component.Output(ref.OutputName); !ok {
		return zerr.With(zerr.With(ErrDanglingReference, "task", ref.TaskID), "output", ref.OutputName)
	}
	return nil
}

// topologicalOrder runs Kahn's algorithm with a sorted ready queue.
func topologicalOrder(ids []string, deps map[string][]string) ([]string, error) {
	indegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		indegree[id] = len(deps[id])
		for _, dep := range deps[id] {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, next := range dependents[id] {
			indegree[next]--
			if indegree[next] == 0 {
				i, _ := slices.BinarySearch(ready, next)
				ready = slices.Insert(ready, i, next)
			}
		}
	}

	if len(order) != len(ids) {
		return nil, buildCycleError(ids, deps, indegree)
	}
	return order, nil
}

// buildCycleError follows unordered dependencies from the smallest stuck task
// until a task repeats, and reports that loop.
func buildCycleError(ids []string, deps map[string][]string, indegree map[string]int) error {
	var node string
	for _, id := range ids {
		if indegree[id] > 0 {
			node = id
			break
		}
	}

	index := make(map[string]int)
	var path []string
	for {
		if i, seen := index[node]; seen {
			path = append(path[i:], node)
			break
		}
		index[node] = len(path)
		path = append(path, node)

		for _, dep := range deps[node] {
			if indegree[dep] > 0 {
				node = dep
				break
			}
		}
	}

	return zerr.With(ErrCyclicGraph, "cycle", strings.Join(path, " -> "))
}

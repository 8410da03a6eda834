// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package dag

import (
	"fmt"
	"sort"

	"open-swarm/internal/types"
)

// Node is one task in the built DAG, with forward and reverse
// adjacency computed at build time.
type Node struct {
	Task       types.Task
	DependsOn  map[string]bool
	Dependents map[string]bool
	Status     types.TaskStatus
	Result     *types.TaskResult
}

// DAG is the node map plus the wave partition computed by Build.
type DAG struct {
	Nodes map[string]*Node
	Waves [][]*Node
}

// CycleDetectedError is returned when the frontier-extraction wave
// builder stalls with nodes still pending (defensive: the decomposer
// never produces cycles, but the DAG builder still must detect one).
type CycleDetectedError struct {
	RemainingIDs []string
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("dag: cycle detected, remaining tasks: %v", e.RemainingIDs)
}

// Builder constructs a DAG from a Decomposition's tasks.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build creates one Node per task, wires dependsOn/dependents sets,
// and computes waves by repeated frontier extraction: the next wave is
// every pending node whose dependsOn are all in the completed set.
func (b *Builder) Build(tasks []types.Task) (*DAG, error) {
	nodes := make(map[string]*Node, len(tasks))
	for _, t := range tasks {
		deps := make(map[string]bool, len(t.DependsOn))
		for _, d := range t.DependsOn {
			deps[d] = true
		}
		nodes[t.ID] = &Node{
			Task:       t,
			DependsOn:  deps,
			Dependents: make(map[string]bool),
			Status:     types.StatusPending,
		}
	}

	for _, n := range nodes {
		for dep := range n.DependsOn {
			if depNode, ok := nodes[dep]; ok {
				depNode.Dependents[n.Task.ID] = true
			}
		}
	}

	waves, err := computeWaves(nodes)
	if err != nil {
		return nil, err
	}

	return &DAG{Nodes: nodes, Waves: waves}, nil
}

// computeWaves partitions nodes into waves where every node in wave k
// depends only on nodes in waves 0..k-1. Order within a wave follows
// task index, so dispatch order equals task index order.
func computeWaves(nodes map[string]*Node) ([][]*Node, error) {
	completed := make(map[string]bool, len(nodes))
	var waves [][]*Node

	for len(completed) < len(nodes) {
		var frontier []*Node
		for id, n := range nodes {
			if completed[id] {
				continue
			}
			ready := true
			for dep := range n.DependsOn {
				if !completed[dep] {
					ready = false
					break
				}
			}
			if ready {
				frontier = append(frontier, n)
			}
		}

		if len(frontier) == 0 {
			var remaining []string
			for id := range nodes {
				if !completed[id] {
					remaining = append(remaining, id)
				}
			}
			sort.Strings(remaining)
			return nil, &CycleDetectedError{RemainingIDs: remaining}
		}

		sort.Slice(frontier, func(i, j int) bool {
			return frontier[i].Task.Index < frontier[j].Task.Index
		})

		for _, n := range frontier {
			n.Status = types.StatusScheduled
			completed[n.Task.ID] = true
		}

		waves = append(waves, frontier)
	}

	return waves, nil
}

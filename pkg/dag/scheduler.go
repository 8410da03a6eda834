// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package dag builds and schedules the dependency graph driving stage
// 6 of the cognitive pipeline, as a standalone component with no
// external workflow-engine coupling: the toposort ordering here
// doubles as an early, generic cycle check ahead of the wave builder's
// own frontier-extraction cycle detection, which additionally reports
// the stalled node ids.
package dag

import (
	"fmt"

	"github.com/gammazero/toposort"

	"open-swarm/internal/types"
)

// Scheduler computes a flat, dependency-respecting task order.
type Scheduler struct{}

// NewScheduler creates a Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// BuildExecutionOrder performs a topological sort over task ids.
func (s *Scheduler) BuildExecutionOrder(tasks []types.Task) ([]string, error) {
	if len(tasks) == 0 {
		return []string{}, nil
	}

	edges := make([]toposort.Edge, 0)
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			edges = append(edges, toposort.Edge{dep, t.ID})
		}
	}

	if len(edges) == 0 {
		flatOrder := make([]string, 0, len(tasks))
		for _, t := range tasks {
			flatOrder = append(flatOrder, t.ID)
		}
		return flatOrder, nil
	}

	sortedNodes, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("cycle detected in DAG: %w", err)
	}

	inSorted := make(map[string]bool, len(sortedNodes))
	flatOrder := make([]string, 0, len(tasks))

	for _, node := range sortedNodes {
		id := node.(string)
		inSorted[id] = true
		flatOrder = append(flatOrder, id)
	}

	for _, t := range tasks {
		if !inSorted[t.ID] {
			flatOrder = append([]string{t.ID}, flatOrder...)
		}
	}

	return flatOrder, nil
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package spawner implements the Agent Spawner, stage 5 of the
// cognitive pipeline: it pools primary+secondary cluster candidates
// from the registry, dedupes them, ranks them, and assigns agents per
// task, using a dedup-then-select idiom generalized from
// worker-execution lifecycle management to pure candidate-pool
// selection.
package spawner

import (
	"errors"
	"log/slog"

	"open-swarm/internal/registry"
	"open-swarm/internal/types"
)

// ErrNoEligibleAgents is returned when the deduplicated candidate pool
// is empty: the registry has nothing usable for this request.
var ErrNoEligibleAgents = errors.New("spawner: no eligible agents")

// Spawner allocates agents to tasks using registry candidate pools.
type Spawner struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a Spawner backed by reg.
func New(reg *registry.Registry, logger *slog.Logger) *Spawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Spawner{registry: reg, logger: logger}
}

// Allocate builds the Allocation for a Decomposition given its
// Complexity and primary/secondary Intent.
func (s *Spawner) Allocate(d types.Decomposition, c types.Complexity, primary types.Intent) (types.Allocation, error) {
	primaryPool := s.registry.FindAgents(registry.Filter{Cluster: primary.Cluster, Complexity: c.Level})

	var secondaryPool []types.Agent
	for _, sec := range primary.Secondary {
		secondaryPool = append(secondaryPool, s.registry.FindAgents(registry.Filter{Cluster: sec.Cluster, Complexity: c.Level})...)
	}

	pool := dedupe(append(append([]types.Agent{}, primaryPool...), secondaryPool...))

	if len(pool) == 0 {
		return types.Allocation{}, ErrNoEligibleAgents
	}

	selected := selectByLevel(pool, c)

	assignments := make(map[string][]string, len(d.Tasks))
	for _, task := range d.Tasks {
		var ids []string
		for _, a := range selected {
			if a.Cluster == task.Cluster {
				ids = append(ids, a.ID)
			}
		}
		if len(ids) == 0 {
			ids = []string{selected[0].ID}
		}
		assignments[task.ID] = ids
	}

	s.logger.Info("agents allocated",
		"poolSize", len(pool),
		"selectedCount", len(selected),
		"strategy", strategyFor(c.Level))

	return types.Allocation{
		Agents:      selected,
		Assignments: assignments,
		Strategy:    strategyFor(c.Level),
	}, nil
}

// dedupe keeps the first occurrence of each agent id, preserving the
// primary-pool-first order.
func dedupe(pool []types.Agent) []types.Agent {
	seen := make(map[string]bool, len(pool))
	out := make([]types.Agent, 0, len(pool))
	for _, a := range pool {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

// selectByLevel trims the deduplicated pool to the complexity level's
// agent-count target.
func selectByLevel(pool []types.Agent, c types.Complexity) []types.Agent {
	switch c.Level {
	case types.LevelSimple:
		n := c.AgentCount
		if n < 1 {
			n = 1
		}
		return firstN(pool, n)
	case types.LevelMedium:
		return firstN(pool, c.AgentCount)
	default: // complex
		n := len(pool)
		if n > 10 {
			n = 10
		}
		return firstN(pool, n)
	}
}

func firstN(pool []types.Agent, n int) []types.Agent {
	if n > len(pool) {
		n = len(pool)
	}
	if n < 0 {
		n = 0
	}
	return pool[:n]
}

func strategyFor(level types.ComplexityLevel) types.Strategy {
	switch level {
	case types.LevelSimple:
		return types.StrategyDirect
	case types.LevelMedium:
		return types.StrategyParallel
	default:
		return types.StrategyDAGStaged
	}
}

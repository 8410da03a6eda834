// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package complexity implements the Complexity Scorer, stage 4 of the
// cognitive pipeline: subtask count x dependency density x risk,
// bucketed into an agent-count range and a wave count.
package complexity

import (
	"math"
	"strings"

	"open-swarm/internal/types"
)

// riskKeywords each occurrence adds 0.2 to the risk factor, capped at 3.0.
var riskKeywords = []string{
	"deploy", "delete", "production", "database", "migration",
	"security", "authentication", "payment", "critical", "infrastructure",
}

const (
	maxRisk = 3.0

	simpleMax = 3.0
	mediumMax = 7.0

	simpleLo, simpleHi   = 1, 2
	mediumLo, mediumHi   = 3, 5
	complexLo, complexHi = 5, 10
)

// Scorer computes a Complexity from a Decomposition.
type Scorer struct{}

// New creates a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score computes subtaskCount x dependencyWeight x riskFactor, buckets
// it into a level and agent-count range, and computes the wave count
// from each task's dependency depth.
func (s *Scorer) Score(d types.Decomposition) types.Complexity {
	subtaskCount := len(d.Tasks)

	totalDeps := 0
	for _, t := range d.Tasks {
		totalDeps += len(t.DependsOn)
	}

	denom := subtaskCount
	if denom < 1 {
		denom = 1
	}
	dependencyWeight := 1 + float64(totalDeps)/float64(denom)

	risk := 1.0
	for _, t := range d.Tasks {
		lowered := strings.ToLower(t.Description)
		for _, kw := range riskKeywords {
			risk += 0.2 * float64(strings.Count(lowered, kw))
		}
	}
	if risk > maxRisk {
		risk = maxRisk
	}

	score := round1(float64(subtaskCount) * dependencyWeight * risk)

	level, lo, hi := bucket(score)
	agentCount := int(math.Round(float64(lo) + minFloat(score/10, 1)*float64(hi-lo)))

	waves := computeWaves(d.Tasks)

	return types.Complexity{
		Score:      score,
		Level:      level,
		AgentCount: agentCount,
		Waves:      waves,
		Details: types.ComplexityDetails{
			SubtaskCount:     subtaskCount,
			DependencyWeight: dependencyWeight,
			RiskFactor:       risk,
		},
	}
}

func bucket(score float64) (types.ComplexityLevel, int, int) {
	switch {
	case score <= simpleMax:
		return types.LevelSimple, simpleLo, simpleHi
	case score <= mediumMax:
		return types.LevelMedium, mediumLo, mediumHi
	default:
		return types.LevelComplex, complexLo, complexHi
	}
}

// computeWaves assigns each task a level = 1 + max(level of
// dependencies), roots at level 0, and returns maxLevel + 1.
func computeWaves(tasks []types.Task) int {
	if len(tasks) == 0 {
		return 0
	}

	levels := make(map[string]int, len(tasks))
	byID := make(map[string]types.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	var levelOf func(id string) int
	levelOf = func(id string) int {
		if lvl, ok := levels[id]; ok {
			return lvl
		}
		t := byID[id]
		if len(t.DependsOn) == 0 {
			levels[id] = 0
			return 0
		}
		max := -1
		for _, dep := range t.DependsOn {
			if l := levelOf(dep); l > max {
				max = l
			}
		}
		lvl := max + 1
		levels[id] = lvl
		return lvl
	}

	maxLevel := 0
	for _, t := range tasks {
		if l := levelOf(t.ID); l > maxLevel {
			maxLevel = l
		}
	}

	return maxLevel + 1
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

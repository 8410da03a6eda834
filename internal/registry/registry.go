// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package registry implements the Agent Registry, the catalog of
// agents grouped by cluster with performance-sorted lookup. It keeps
// an insertion-ordered map guarded by sync.RWMutex, generalized from
// "active agents in a project" to "candidate pool ranked by
// confidence".
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"open-swarm/internal/types"
)

// Registry is the catalog of agents and clusters. It is constructed
// once and mutated only via metric/confidence updates.
type Registry struct {
	mu       sync.RWMutex
	agents   map[string]types.Agent
	order    []string // insertion order, for stable equal-confidence ranking
	clusters map[string]types.Cluster
	logger   *slog.Logger
}

// New creates a Registry pre-populated with the built-in clusters and
// agents.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		agents:   make(map[string]types.Agent),
		clusters: make(map[string]types.Cluster),
		logger:   logger,
	}

	for _, c := range builtinClusters {
		r.clusters[c.ID] = c
	}

	now := time.Now()
	for _, a := range builtinAgents {
		a.CreatedAt = now
		r.agents[a.ID] = a
		r.order = append(r.order, a.ID)
		cluster := r.clusters[a.Cluster]
		cluster.Members = append(cluster.Members, a.ID)
		r.clusters[a.Cluster] = cluster
	}

	return r
}

// Filter narrows a findAgents call: zero-value fields are wildcards.
type Filter struct {
	Cluster    string
	Skills     []string
	Complexity types.ComplexityLevel
}

// FindAgents filters by cluster equality, any-skill-overlap, and
// supported-complexity membership, then sorts descending by current
// confidence (stable, so equal-confidence agents keep insertion order).
func (r *Registry) FindAgents(f Filter) []types.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []types.Agent
	for _, id := range r.order {
		a := r.agents[id]
		if f.Cluster != "" && a.Cluster != f.Cluster {
			continue
		}
		if !a.HasAnySkill(f.Skills) {
			continue
		}
		if f.Complexity != "" && !a.SupportsLevel(f.Complexity) {
			continue
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ConfidenceScore > matched[j].ConfidenceScore
	})

	return matched
}

// Get returns a single agent by id.
func (r *Registry) Get(id string) (types.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// MetricsUpdate is the input to UpdateAgentMetrics.
type MetricsUpdate struct {
	Duration time.Duration
	Failed   bool
}

// UpdateAgentMetrics applies the registry's local confidence path: EMA
// updates to avgExecutionTime/failureRate, then a +-0.02/-0.05
// confidence nudge depending on outcome, clamped to
// [MinConfidence, MaxConfidence].
func (r *Registry) UpdateAgentMetrics(agentID string, update MetricsUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[agentID]
	if !ok {
		return fmt.Errorf("registry: unknown agent %q", agentID)
	}

	durationSeconds := update.Duration.Seconds()
	prevAvg := a.AvgExecutionTime

	a.TotalExecutions++
	a.AvgExecutionTime = ema(a.AvgExecutionTime, durationSeconds)

	failureSample := 0.0
	if update.Failed {
		failureSample = 1.0
	}
	a.FailureRate = ema(a.FailureRate, failureSample)

	switch {
	case update.Failed:
		a.ConfidenceScore = clamp(a.ConfidenceScore - 0.05)
	case durationSeconds < prevAvg:
		a.ConfidenceScore = clamp(a.ConfidenceScore + 0.02)
	}

	r.agents[agentID] = a

	r.logger.Info("agent metrics updated",
		"agentID", agentID,
		"totalExecutions", a.TotalExecutions,
		"avgExecutionTime", a.AvgExecutionTime,
		"failureRate", a.FailureRate,
		"confidence", a.ConfidenceScore)

	return nil
}

// ApplyUpdates consumes a queue of confidence deltas produced by the
// Learning System, applying each exactly once, clamped and rounded to
// three decimals.
func (r *Registry) ApplyUpdates(deltas []types.ConfidenceDelta) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range deltas {
		a, ok := r.agents[d.AgentID]
		if !ok {
			r.logger.Warn("learning update for unknown agent dropped", "agentID", d.AgentID)
			continue
		}
		a.ConfidenceScore = round3(clamp(a.ConfidenceScore + d.Delta))
		r.agents[d.AgentID] = a

		r.logger.Debug("confidence delta applied",
			"agentID", d.AgentID, "delta", d.Delta, "reason", d.Reason, "newConfidence", a.ConfidenceScore)
	}
}

// Cluster returns a cluster by id.
func (r *Registry) Cluster(id string) (types.Cluster, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clusters[id]
	return c, ok
}

func ema(prev, sample float64) float64 {
	if prev == 0 {
		return sample
	}
	return types.ConfidenceEMAAlpha*sample + (1-types.ConfidenceEMAAlpha)*prev
}

func clamp(v float64) float64 {
	if v < types.MinConfidence {
		return types.MinConfidence
	}
	if v > types.MaxConfidence {
		return types.MaxConfidence
	}
	return v
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

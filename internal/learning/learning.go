// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package learning implements stage 9 of the cognitive pipeline:
// recording performance, mining patterns, queuing confidence deltas,
// and storing high-quality task solutions by feeding execution
// outcomes back into the registry it reads from.
package learning

import (
	"fmt"
	"log/slog"
	"time"

	"open-swarm/internal/memory"
	"open-swarm/internal/types"
)

const (
	qualityPatternThreshold  = 0.8
	fastExecutionThreshold   = 100 * time.Millisecond
	solutionSuccessThreshold = 0.8

	confidenceBoostDelta  = 0.02
	confidenceFailureDelta = -0.05
)

// System is the Learning System. It owns no agent state directly; it
// reads from and writes to the Memory Store, and returns a queue of
// ConfidenceDelta for the caller to hand to Registry.ApplyUpdates.
type System struct {
	store  *memory.Store
	logger *slog.Logger
}

// New creates a Learning System backed by store.
func New(store *memory.Store, logger *slog.Logger) *System {
	if logger == nil {
		logger = slog.Default()
	}
	return &System{store: store, logger: logger}
}

// Process runs all four Learning System actions over one completed
// pipeline and returns the queued confidence deltas.
// rawInput is the original request text, needed only for the stored
// TaskSolution's TaskDescription.
func (s *System) Process(rawInput string, pipeline types.Pipeline) []types.ConfidenceDelta {
	taskByID := make(map[string]types.Task, len(pipeline.Decomposition.Tasks))
	for _, t := range pipeline.Decomposition.Tasks {
		taskByID[t.ID] = t
	}

	s.recordPerformance(pipeline, taskByID)
	s.minePatterns(pipeline)
	deltas := s.queueConfidenceDeltas(pipeline, taskByID)
	s.storeSolutionIfHighQuality(rawInput, pipeline)

	return deltas
}

func (s *System) recordPerformance(pipeline types.Pipeline, taskByID map[string]types.Task) {
	now := time.Now()
	for _, r := range pipeline.Execution.Results {
		if r.Status != types.StatusCompleted && r.Status != types.StatusFailed {
			continue
		}
		task := taskByID[r.TaskID]
		s.store.RecordPerformance(types.PerformanceRecord{
			Timestamp:  now,
			AgentID:    r.AgentID,
			TaskID:     r.TaskID,
			Duration:   r.Duration,
			Success:    r.Status == types.StatusCompleted,
			Complexity: pipeline.Complexity.Level,
			Cluster:    task.Cluster,
		})
	}
}

func (s *System) minePatterns(pipeline types.Pipeline) {
	eval := pipeline.Evaluation
	if eval.Quality > qualityPatternThreshold {
		key := fmt.Sprintf("%s:%s", pipeline.Intent.Type, pipeline.Complexity.Level)
		s.store.RecordPattern(key, "high quality outcome", eval.Quality, eval.AvgDuration)
	}

	if eval.Completed > 0 && eval.AvgDuration > 0 && eval.AvgDuration < fastExecutionThreshold {
		key := fmt.Sprintf("fast_execution:%s", pipeline.Intent.Type)
		s.store.RecordPattern(key, "consistently fast execution", eval.Quality, eval.AvgDuration)
	}
}

// queueConfidenceDeltas implements the "faster than cluster average"
// rule. When the store reports no history for the cluster, the
// comparison falls back to the task's own duration, which can never be
// strictly less than itself. Process records this request's results
// before calling it, so the average already includes the task being
// judged: a cluster's first task, if it is the only completed task of
// that cluster in the request, equals the average and gets no boost;
// in a first request with several completed tasks in one cluster, those
// faster than that request's average are boosted.
func (s *System) queueConfidenceDeltas(pipeline types.Pipeline, taskByID map[string]types.Task) []types.ConfidenceDelta {
	var deltas []types.ConfidenceDelta

	for _, r := range pipeline.Execution.Results {
		if r.AgentID == "" {
			continue
		}

		switch r.Status {
		case types.StatusCompleted:
			task := taskByID[r.TaskID]
			threshold := r.Duration
			if avg, ok := s.store.ClusterAverageDuration(task.Cluster); ok {
				threshold = avg
			}
			if r.Duration < threshold {
				deltas = append(deltas, types.ConfidenceDelta{
					AgentID: r.AgentID,
					Delta:   confidenceBoostDelta,
					Reason:  "faster than cluster average",
				})
			}
		case types.StatusFailed:
			deltas = append(deltas, types.ConfidenceDelta{
				AgentID: r.AgentID,
				Delta:   confidenceFailureDelta,
				Reason:  "task failed",
			})
		}
	}

	return deltas
}

func (s *System) storeSolutionIfHighQuality(rawInput string, pipeline types.Pipeline) {
	if pipeline.Evaluation.SuccessRate <= solutionSuccessThreshold {
		return
	}

	s.store.StoreSolution(types.TaskSolution{
		TaskDescription: rawInput,
		Solution:        summarizePipeline(pipeline),
		StoredAt:        time.Now(),
	})
}

func summarizePipeline(pipeline types.Pipeline) string {
	return fmt.Sprintf("intent=%s complexity=%s strategy=%s agents=%d completed=%d/%d quality=%.2f",
		pipeline.Intent.Type,
		pipeline.Complexity.Level,
		pipeline.Agents.Strategy,
		len(pipeline.Agents.Agents),
		pipeline.Evaluation.Completed,
		pipeline.Evaluation.Total,
		pipeline.Evaluation.Quality)
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package dag

import (
	"context"
	"log/slog"
	"time"

	"open-swarm/internal/renderer"
	"open-swarm/internal/telemetry"
	"open-swarm/internal/types"
	"open-swarm/internal/workerpool"
)

const tracerName = "open-swarm/dag"

// ExecuteFunc is the opaque worker body contract: run a task's
// description against its assigned agents and return either an output
// record or an error.
type ExecuteFunc func(ctx context.Context, taskDescription string, agentIDs []string) (output string, metadata map[string]string, err error)

// Executor drives the Wave Scheduler: wave-by-wave dispatch through a
// bounded Worker Pool with a strict barrier between waves, and
// transitive skip propagation to dependents of a failed task. This is
// stage 6 of the cognitive pipeline, kept separate from Builder (which
// only computes structure) so DAG construction and DAG execution stay
// distinct concerns.
type Executor struct {
	pool   *workerpool.Pool
	logger *slog.Logger
}

// NewExecutor creates an Executor that dispatches through pool.
func NewExecutor(pool *workerpool.Pool, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{pool: pool, logger: logger}
}

// Run executes every wave of d in order, never starting wave i+1 until
// wave i has fully settled. assignments maps task id to its assigned
// agent ids; the first id is recorded as the task's executing agent.
// obs may be nil.
func (e *Executor) Run(ctx context.Context, d *DAG, assignments map[string][]string, execute ExecuteFunc, obs renderer.Observer) types.ExecutionResult {
	result := types.ExecutionResult{TotalTasks: len(d.Nodes)}

	for waveIndex, wave := range d.Waves {
		if ctx.Err() != nil {
			e.logger.Warn("execution cancelled before wave dispatched", "wave", waveIndex)
			break
		}

		e.logger.Info("dispatching wave", "wave", waveIndex, "size", len(wave))
		observe(obs, renderer.Event{Stage: "execute", Detail: "wave dispatched", Wave: waveIndex, Timestamp: time.Now()})

		waveCtx, waveSpan := telemetry.StartSpan(ctx, tracerName, "dag.wave")
		telemetry.AddAttributes(waveCtx, telemetry.WaveAttrs(waveIndex)...)
		waveResults := e.runWave(waveCtx, waveIndex, wave, assignments, execute)
		waveSpan.End()
		result.Results = append(result.Results, waveResults...)
		result.Waves = waveIndex + 1

		for _, r := range waveResults {
			if r.Status != types.StatusFailed {
				continue
			}
			skipDependents(d, r.TaskID)
		}
	}

	// A node skipped by a failed ancestor whose own wave was never
	// reached (cancellation stopped the loop) still needs a skipped
	// TaskResult. Nodes left unreached by cancellation with no failed
	// ancestor get no TaskResult.
	for waveIndex, wave := range d.Waves {
		for _, n := range wave {
			if n.Status == types.StatusSkipped && n.Result == nil {
				skipped := types.TaskResult{TaskID: n.Task.ID, Description: n.Task.Description, Status: types.StatusSkipped, Wave: waveIndex}
				n.Result = &skipped
				result.Results = append(result.Results, skipped)
			}
		}
	}

	return result
}

func (e *Executor) runWave(ctx context.Context, waveIndex int, wave []*Node, assignments map[string][]string, execute ExecuteFunc) []types.TaskResult {
	type settled struct {
		index  int
		result types.TaskResult
	}

	out := make([]types.TaskResult, len(wave))
	done := make(chan settled, len(wave))

	for i, n := range wave {
		if n.Status == types.StatusSkipped {
			r := types.TaskResult{TaskID: n.Task.ID, Description: n.Task.Description, Status: types.StatusSkipped, Wave: waveIndex}
			n.Result = &r
			done <- settled{index: i, result: r}
			continue
		}

		node := n
		agentIDs := assignments[node.Task.ID]
		agentID := ""
		if len(agentIDs) > 0 {
			agentID = agentIDs[0]
		}

		go func(idx int) {
			taskCtx, taskSpan := telemetry.StartSpan(ctx, tracerName, "dag.task")
			telemetry.AddAttributes(taskCtx, telemetry.TaskAttrs(node.Task.ID, agentID, node.Task.Cluster)...)

			start := time.Now()
			res := e.pool.Submit(taskCtx, workerpool.Job{
				ID:          node.Task.ID,
				Description: node.Task.Description,
				Execute: func(ctx context.Context) (string, map[string]string, error) {
					return execute(ctx, node.Task.Description, agentIDs)
				},
			})
			duration := time.Since(start)
			if res.Err != nil {
				telemetry.RecordError(taskCtx, res.Err)
			}
			taskSpan.End()

			tr := types.TaskResult{
				TaskID:      node.Task.ID,
				Description: node.Task.Description,
				Duration:    duration,
				AgentID:     agentID,
				Wave:        waveIndex,
			}
			if res.Err != nil {
				tr.Status = types.StatusFailed
				tr.Error = res.Err.Error()
			} else {
				tr.Status = types.StatusCompleted
				tr.Output = res.Output
			}

			node.Status = tr.Status
			node.Result = &tr
			done <- settled{index: idx, result: tr}
		}(i)
	}

	for range wave {
		s := <-done
		out[s.index] = s.result
	}

	return out
}

// skipDependents walks failedID's dependents transitively, marking
// every still-pending descendant skipped. Skipped nodes are not
// dispatched; they produce a zero-duration, no-output TaskResult when
// their own wave is reached.
func skipDependents(d *DAG, failedID string) {
	var walk func(id string)
	visited := make(map[string]bool)
	walk = func(id string) {
		n, ok := d.Nodes[id]
		if !ok {
			return
		}
		for depID := range n.Dependents {
			if visited[depID] {
				continue
			}
			visited[depID] = true
			dep := d.Nodes[depID]
			if dep.Status == types.StatusPending || dep.Status == types.StatusScheduled {
				dep.Status = types.StatusSkipped
			}
			walk(depID)
		}
	}
	walk(failedID)
}

func observe(obs renderer.Observer, e renderer.Event) {
	if obs == nil {
		return
	}
	obs.Observe(e)
}

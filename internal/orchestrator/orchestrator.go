// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package orchestrator wires every pipeline stage together behind a
// single Execute entry point, the way a coordinator type drives its
// own multi-stage agent run.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"

	"open-swarm/internal/complexity"
	"open-swarm/internal/config"
	"open-swarm/internal/decompose"
	"open-swarm/internal/evaluator"
	"open-swarm/internal/gate"
	"open-swarm/internal/intent"
	"open-swarm/internal/learning"
	"open-swarm/internal/memory"
	"open-swarm/internal/registry"
	"open-swarm/internal/renderer"
	"open-swarm/internal/spawner"
	"open-swarm/internal/telemetry"
	"open-swarm/internal/types"
	"open-swarm/internal/worker"
	"open-swarm/internal/workerpool"
	"open-swarm/pkg/dag"
)

const tracerName = "open-swarm/orchestrator"

// RequestContext is the caller-supplied context of an
// execute(input, ctx) call: a session key for the Memory Store's
// session layer, the permission gate collaborator, and an optional
// renderer observer.
type RequestContext struct {
	Session        string
	PermissionGate gate.Decider
	Renderer       renderer.Observer
}

// Response is the success form of Execute: a human-readable summary
// plus the full Pipeline record and request Metrics.
type Response struct {
	Output   string
	Pipeline types.Pipeline
	Metrics  types.Metrics
}

// Orchestrator owns one instance of every pipeline component and runs
// requests through them synchronously, except stage 6 (DAG execution),
// which is internally concurrent.
type Orchestrator struct {
	cfg *config.Config

	classifier *intent.Classifier
	decomposer *decompose.Decomposer
	scorer     *complexity.Scorer
	reg        *registry.Registry
	spawnerSvc *spawner.Spawner
	scheduler  *dag.Scheduler
	builder    *dag.Builder
	pool       *workerpool.Pool
	executor   *dag.Executor
	eval       *evaluator.Evaluator
	learn      *learning.System
	mem        *memory.Store

	execute dag.ExecuteFunc
	logger  *slog.Logger
}

// New wires one Orchestrator from cfg. execute is the opaque worker
// body, the single LLM-call injection point; a nil execute falls back
// to worker.Simulator, the deterministic-shape default.
func New(cfg *config.Config, execute dag.ExecuteFunc, logger *slog.Logger) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if execute == nil {
		execute = worker.NewSimulator(nil).Execute
	}

	reg := registry.New(logger)
	pool := workerpool.New(cfg.Pool.MaxWorkers)
	mem := memory.New(logger)

	return &Orchestrator{
		cfg:        cfg,
		classifier: intent.New(logger),
		decomposer: decompose.New(),
		scorer:     complexity.New(),
		reg:        reg,
		spawnerSvc: spawner.New(reg, logger),
		scheduler:  dag.NewScheduler(),
		builder:    dag.NewBuilder(),
		pool:       pool,
		executor:   dag.NewExecutor(pool, logger),
		eval:       evaluator.New(),
		learn:      learning.New(mem, logger),
		mem:        mem,
		execute:    execute,
		logger:     logger,
	}
}

// Memory exposes the Memory Store for Save/Load by callers that manage
// persistence lifecycle themselves.
func (o *Orchestrator) Memory() *memory.Store {
	return o.mem
}

// Execute runs the ten-stage cognitive pipeline against input. On any
// fatal stage error it returns the error form with whatever stages
// completed populating resp.Pipeline.
func (o *Orchestrator) Execute(ctx context.Context, input string, reqCtx RequestContext) (Response, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, tracerName, "orchestrator.execute")
	defer span.End()

	var pipeline types.Pipeline
	metrics := func() types.Metrics {
		return types.Metrics{
			Duration:        time.Since(start),
			AgentsUsed:      len(pipeline.Agents.Agents),
			TasksCompleted:  pipeline.Evaluation.Completed,
			TasksFailed:     pipeline.Evaluation.Failed,
			ComplexityLevel: pipeline.Complexity.Level,
		}
	}

	if reqCtx.Session != "" {
		o.mem.SessionSet(reqCtx.Session+":lastInput", input)
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		err := &ParseError{Reason: "raw input is empty or whitespace only"}
		telemetry.RecordError(ctx, err)
		span.SetStatus(codes.Error, err.Error())
		return Response{Pipeline: pipeline, Metrics: metrics()}, err
	}

	telemetry.AddAttributes(ctx, telemetry.StageAttrs(reqCtx.Session, "classify_intent")...)
	pipeline.Intent = o.classifier.Classify(trimmed)
	telemetry.AddAttributes(ctx, telemetry.AttrIntentType.String(pipeline.Intent.Type))

	telemetry.AddAttributes(ctx, telemetry.StageAttrs(reqCtx.Session, "decompose")...)
	pipeline.Decomposition = o.decomposer.Decompose(trimmed, pipeline.Intent)

	telemetry.AddAttributes(ctx, telemetry.StageAttrs(reqCtx.Session, "score_complexity")...)
	pipeline.Complexity = o.scorer.Score(pipeline.Decomposition)
	telemetry.AddAttributes(ctx, telemetry.AttrComplexity.String(string(pipeline.Complexity.Level)))

	if reqCtx.PermissionGate != nil {
		ctx = gate.WithDecider(ctx, reqCtx.PermissionGate)
	}

	allocation, err := o.spawnerSvc.Allocate(pipeline.Decomposition, pipeline.Complexity, pipeline.Intent)
	if err != nil {
		wrapped := &NoEligibleAgentsError{Cluster: pipeline.Intent.Cluster}
		telemetry.RecordError(ctx, wrapped)
		span.SetStatus(codes.Error, wrapped.Error())
		return Response{Pipeline: pipeline, Metrics: metrics()}, wrapped
	}
	pipeline.Agents = allocation

	if _, err := o.scheduler.BuildExecutionOrder(pipeline.Decomposition.Tasks); err != nil {
		remaining := make([]string, len(pipeline.Decomposition.Tasks))
		for i, t := range pipeline.Decomposition.Tasks {
			remaining[i] = t.ID
		}
		wrapped := &CycleDetectedError{RemainingIDs: remaining}
		telemetry.RecordError(ctx, wrapped)
		span.SetStatus(codes.Error, wrapped.Error())
		return Response{Pipeline: pipeline, Metrics: metrics()}, wrapped
	}

	graph, err := o.builder.Build(pipeline.Decomposition.Tasks)
	if err != nil {
		var remaining []string
		if cycleErr, ok := err.(*dag.CycleDetectedError); ok {
			remaining = cycleErr.RemainingIDs
		}
		wrapped := &CycleDetectedError{RemainingIDs: remaining}
		telemetry.RecordError(ctx, wrapped)
		span.SetStatus(codes.Error, wrapped.Error())
		return Response{Pipeline: pipeline, Metrics: metrics()}, wrapped
	}

	telemetry.AddAttributes(ctx, telemetry.StageAttrs(reqCtx.Session, "execute_dag")...)
	pipeline.Execution = o.executor.Run(ctx, graph, allocation.Assignments, o.execute, reqCtx.Renderer)
	pipeline.Evaluation = o.eval.Evaluate(pipeline.Execution)

	o.applyLearning(trimmed, pipeline)

	summary := evaluator.Summarize(pipeline.Evaluation, pipeline.Execution)

	if o.cfg.Memory.SnapshotPath != "" {
		if err := o.mem.Save(o.cfg.Memory.SnapshotPath); err != nil {
			persistErr := &PersistenceError{Op: "save", Cause: err}
			o.logger.Error("memory snapshot save failed", "error", persistErr)
		}
	}

	span.SetStatus(codes.Ok, "")
	return Response{Output: summary, Pipeline: pipeline, Metrics: metrics()}, nil
}

// applyLearning runs the Learning System and, per the configured
// confidence authority, applies its deltas and/or the registry's local
// per-task nudge. Both paths are real, independent code paths; this is
// the single place that decides which fires.
func (o *Orchestrator) applyLearning(rawInput string, pipeline types.Pipeline) {
	deltas := o.learn.Process(rawInput, pipeline)

	switch o.cfg.Confidence.Authority {
	case config.AuthorityLearning:
		o.reg.ApplyUpdates(deltas)
	case config.AuthorityRegistry:
		o.applyRegistryMetrics(pipeline)
	default: // both
		o.applyRegistryMetrics(pipeline)
		o.reg.ApplyUpdates(deltas)
	}
}

func (o *Orchestrator) applyRegistryMetrics(pipeline types.Pipeline) {
	for _, r := range pipeline.Execution.Results {
		if r.AgentID == "" {
			continue
		}
		if r.Status != types.StatusCompleted && r.Status != types.StatusFailed {
			continue
		}
		_ = o.reg.UpdateAgentMetrics(r.AgentID, registry.MetricsUpdate{
			Duration: r.Duration,
			Failed:   r.Status == types.StatusFailed,
		})
	}
}

// LoadMemory loads a prior snapshot if one exists at the configured
// path. A missing file is not an error.
func (o *Orchestrator) LoadMemory() error {
	if o.cfg.Memory.SnapshotPath == "" {
		return nil
	}
	return o.mem.Load(o.cfg.Memory.SnapshotPath)
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package evaluator implements stage 7 of the cognitive pipeline: it
// turns an ExecutionResult into an Evaluation (completion counts,
// quality score) and a human-readable summary, adapted from the
// teacher's habit of reducing a pkg/coordinator run into a single
// reportable record.
package evaluator

import (
	"fmt"
	"strings"
	"time"

	"open-swarm/internal/types"
)

const (
	qualitySuccessWeight = 0.6
	qualitySpeedWeight   = 0.2
	qualityErrorWeight   = 0.2

	speedDivisorMillis = 10000.0
	errorCountDivisor  = 5.0
)

// Evaluator reduces an ExecutionResult to an Evaluation.
type Evaluator struct{}

// New creates an Evaluator. It is stateless.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate counts completed/failed/skipped tasks, sums durations, and
// computes the weighted quality score.
func (e *Evaluator) Evaluate(result types.ExecutionResult) types.Evaluation {
	eval := types.Evaluation{Total: len(result.Results)}

	for _, r := range result.Results {
		switch r.Status {
		case types.StatusCompleted:
			eval.Completed++
			eval.TotalDuration += r.Duration
		case types.StatusFailed:
			eval.Failed++
			eval.TotalDuration += r.Duration
			eval.Errors = append(eval.Errors, types.EvalError{
				TaskID:      r.TaskID,
				Error:       r.Error,
				Recoverable: !strings.Contains(strings.ToLower(r.Error), "fatal"),
			})
		case types.StatusSkipped:
			eval.Skipped++
		}
	}

	if eval.Total == 0 {
		return eval
	}
	if eval.Total > 0 {
		eval.SuccessRate = float64(eval.Completed) / float64(eval.Total)
	}
	if settled := eval.Completed + eval.Failed; settled > 0 {
		eval.AvgDuration = eval.TotalDuration / time.Duration(settled)
	}

	avgMillis := float64(eval.AvgDuration.Milliseconds())
	speedScore := maxFloat(0, 1-avgMillis/speedDivisorMillis)
	errorScore := maxFloat(0, 1-float64(len(eval.Errors))/errorCountDivisor)

	eval.Quality = round2(qualitySuccessWeight*eval.SuccessRate + qualitySpeedWeight*speedScore + qualityErrorWeight*errorScore)

	return eval
}

// Summarize builds the Aggregator's human-readable report: completion
// counts, total duration, quality percent, then one bulleted line per
// completed task.
func Summarize(eval types.Evaluation, result types.ExecutionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Completed %d/%d tasks (%d failed, %d skipped) in %s - quality %.0f%%\n",
		eval.Completed, eval.Total, eval.Failed, eval.Skipped, eval.TotalDuration, eval.Quality*100)

	for _, r := range result.Results {
		if r.Status != types.StatusCompleted {
			continue
		}
		fmt.Fprintf(&b, "  - %s: %s\n", r.Description, r.Output)
	}

	return b.String()
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

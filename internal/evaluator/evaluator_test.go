// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"open-swarm/internal/types"
)

func TestEvaluateAllCompletedYieldsFullSuccessRate(t *testing.T) {
	result := types.ExecutionResult{
		Results: []types.TaskResult{
			{TaskID: "t1", Status: types.StatusCompleted, Duration: 10 * time.Millisecond, Description: "list files", Output: "ok"},
			{TaskID: "t2", Status: types.StatusCompleted, Duration: 20 * time.Millisecond, Description: "list more", Output: "ok"},
		},
	}

	eval := New().Evaluate(result)

	assert.Equal(t, 2, eval.Completed)
	assert.Equal(t, 0, eval.Failed)
	assert.Equal(t, 1.0, eval.SuccessRate)
	assert.Empty(t, eval.Errors)
	assert.Greater(t, eval.Quality, 0.9)
}

func TestEvaluateFailureRecordedWithRecoverableFlag(t *testing.T) {
	result := types.ExecutionResult{
		Results: []types.TaskResult{
			{TaskID: "t1", Status: types.StatusCompleted, Duration: 10 * time.Millisecond},
			{TaskID: "t2", Status: types.StatusFailed, Error: "connection refused"},
			{TaskID: "t3", Status: types.StatusFailed, Error: "fatal: disk full"},
		},
	}

	eval := New().Evaluate(result)

	assert.Equal(t, 1, eval.Completed)
	assert.Equal(t, 2, eval.Failed)
	require := assert.New(t)
	require.Len(eval.Errors, 2)
	require.True(eval.Errors[0].Recoverable)
	require.False(eval.Errors[1].Recoverable)
}

func TestEvaluateSkippedDoesNotCountTowardDuration(t *testing.T) {
	result := types.ExecutionResult{
		Results: []types.TaskResult{
			{TaskID: "t1", Status: types.StatusCompleted, Duration: 5 * time.Millisecond},
			{TaskID: "t2", Status: types.StatusSkipped},
		},
	}

	eval := New().Evaluate(result)

	assert.Equal(t, 1, eval.Skipped)
	assert.Equal(t, 5*time.Millisecond, eval.TotalDuration)
	assert.Equal(t, 5*time.Millisecond, eval.AvgDuration)
}

func TestEvaluateQualityNeverExceedsOne(t *testing.T) {
	result := types.ExecutionResult{
		Results: []types.TaskResult{
			{TaskID: "t1", Status: types.StatusCompleted, Duration: time.Microsecond},
		},
	}

	eval := New().Evaluate(result)
	assert.LessOrEqual(t, eval.Quality, 1.0)
}

func TestEvaluateEmptyResultIsZeroValue(t *testing.T) {
	eval := New().Evaluate(types.ExecutionResult{})
	assert.Equal(t, 0, eval.Total)
	assert.Equal(t, 0.0, eval.SuccessRate)
	assert.Equal(t, 0.0, eval.Quality)
}

func TestSummarizeListsOnlyCompletedTasks(t *testing.T) {
	result := types.ExecutionResult{
		Results: []types.TaskResult{
			{TaskID: "t1", Status: types.StatusCompleted, Description: "list files", Output: "a.txt b.txt"},
			{TaskID: "t2", Status: types.StatusFailed, Description: "deploy", Error: "boom"},
		},
	}
	eval := New().Evaluate(result)

	summary := Summarize(eval, result)

	assert.Contains(t, summary, "list files")
	assert.Contains(t, summary, "a.txt b.txt")
	assert.NotContains(t, summary, "deploy")
}

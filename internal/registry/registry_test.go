// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-swarm/internal/types"
)

func TestFindAgentsSortedByConfidenceDescending(t *testing.T) {
	r := New(nil)

	got := r.FindAgents(Filter{Cluster: "coding"})

	require.Len(t, got, 2)
	assert.Equal(t, "code_agent_v2", got[0].ID) // highest seed confidence
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].ConfidenceScore, got[i].ConfidenceScore)
	}
}

func TestFindAgentsFiltersByComplexity(t *testing.T) {
	r := New(nil)

	got := r.FindAgents(Filter{Cluster: "devops", Complexity: types.LevelSimple})

	assert.Empty(t, got) // neither devops seed agent supports simple
}

func TestUpdateAgentMetricsFailureDropsConfidence(t *testing.T) {
	r := New(nil)
	before, _ := r.Get("code_agent_v2")

	err := r.UpdateAgentMetrics("code_agent_v2", MetricsUpdate{Duration: 5 * time.Second, Failed: true})
	require.NoError(t, err)

	after, _ := r.Get("code_agent_v2")
	assert.LessOrEqual(t, after.ConfidenceScore, before.ConfidenceScore-0.05+1e-9)
	assert.GreaterOrEqual(t, after.ConfidenceScore, types.MinConfidence)
}

func TestUpdateAgentMetricsUnknownAgentErrors(t *testing.T) {
	r := New(nil)
	err := r.UpdateAgentMetrics("nonexistent", MetricsUpdate{})
	assert.Error(t, err)
}

func TestConfidenceNeverLeavesBounds(t *testing.T) {
	r := New(nil)
	for i := 0; i < 50; i++ {
		_ = r.UpdateAgentMetrics("code_agent_v2", MetricsUpdate{Duration: time.Second, Failed: true})
	}
	a, _ := r.Get("code_agent_v2")
	assert.GreaterOrEqual(t, a.ConfidenceScore, types.MinConfidence)
	assert.LessOrEqual(t, a.ConfidenceScore, types.MaxConfidence)
}

func TestApplyUpdatesRoundsToThreeDecimals(t *testing.T) {
	r := New(nil)
	r.ApplyUpdates([]types.ConfidenceDelta{
		{AgentID: "code_agent_v2", Delta: 0.0001, Reason: "faster than cluster average"},
	})
	a, _ := r.Get("code_agent_v2")
	scaled := a.ConfidenceScore * 1000
	assert.InDelta(t, scaled, float64(int(scaled+0.5)), 1e-6)
}

func TestRepeatedFastSuccessesNeverDecreaseConfidence(t *testing.T) {
	r := New(nil)
	prev, _ := r.Get("code_agent_v2")

	for i := 0; i < 10; i++ {
		err := r.UpdateAgentMetrics("code_agent_v2", MetricsUpdate{Duration: time.Second})
		require.NoError(t, err)
		cur, _ := r.Get("code_agent_v2")
		assert.GreaterOrEqual(t, cur.ConfidenceScore, prev.ConfidenceScore)
		prev = cur
	}
	assert.LessOrEqual(t, prev.ConfidenceScore, types.MaxConfidence)
}

func TestApplyUpdatesUnknownAgentIsDropped(t *testing.T) {
	r := New(nil)
	assert.NotPanics(t, func() {
		r.ApplyUpdates([]types.ConfidenceDelta{{AgentID: "ghost", Delta: 0.1}})
	})
}

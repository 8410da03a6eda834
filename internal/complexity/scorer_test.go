// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"open-swarm/internal/types"
)

func TestScoreSimpleSingleTask(t *testing.T) {
	s := New()
	d := types.Decomposition{Tasks: []types.Task{{ID: "a", Description: "list files"}}}

	got := s.Score(d)

	assert.LessOrEqual(t, got.Score, simpleMax)
	assert.Equal(t, types.LevelSimple, got.Level)
	assert.Equal(t, 1, got.Waves)
	assert.GreaterOrEqual(t, got.AgentCount, simpleLo)
	assert.LessOrEqual(t, got.AgentCount, simpleHi)
}

func TestScoreRiskCappedAtThree(t *testing.T) {
	s := New()
	d := types.Decomposition{Tasks: []types.Task{
		{ID: "a", Description: "deploy delete production database migration security authentication payment critical infrastructure deploy delete production"},
	}}

	got := s.Score(d)

	assert.LessOrEqual(t, got.Details.RiskFactor, maxRisk)
	assert.Equal(t, maxRisk, got.Details.RiskFactor)
}

func TestScoreComplexSequentialChain(t *testing.T) {
	s := New()
	// "deploy" + "production" + "critical" pushes risk well past the
	// medium/complex boundary; the bare two-keyword case from this
	// exact scenario lands exactly on score == 7.0, which the bucket
	// formula places in medium (see DESIGN.md).
	d := types.Decomposition{Tasks: []types.Task{
		{ID: "t1", Description: "research OAuth"},
		{ID: "t2", Description: "build API", DependsOn: []string{"t1"}},
		{ID: "t3", Description: "deploy to production critical infrastructure", DependsOn: []string{"t2"}},
	}}

	got := s.Score(d)

	assert.Equal(t, 3, got.Waves)
	assert.Equal(t, types.LevelComplex, got.Level)
}

func TestScoreBoundaryLandsOnMedium(t *testing.T) {
	s := New()
	d := types.Decomposition{Tasks: []types.Task{
		{ID: "t1", Description: "research OAuth"},
		{ID: "t2", Description: "build API", DependsOn: []string{"t1"}},
		{ID: "t3", Description: "deploy to production", DependsOn: []string{"t2"}},
	}}

	got := s.Score(d)

	assert.Equal(t, 7.0, got.Score)
	assert.Equal(t, types.LevelMedium, got.Level)
}

func TestScoreAllIndependentOneWave(t *testing.T) {
	s := New()
	d := types.Decomposition{Tasks: []types.Task{
		{ID: "t1", Description: "build API"},
		{ID: "t2", Description: "write tests"},
		{ID: "t3", Description: "deploy"},
	}}

	got := s.Score(d)

	assert.Equal(t, 1, got.Waves)
}

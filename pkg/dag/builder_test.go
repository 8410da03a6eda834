// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-swarm/internal/types"
)

func TestBuildWavesPartitionAllNodes(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Index: 0},
		{ID: "t2", Index: 1, DependsOn: []string{"t1"}},
		{ID: "t3", Index: 2, DependsOn: []string{"t2"}},
	}

	d, err := NewBuilder().Build(tasks)
	require.NoError(t, err)

	total := 0
	for _, w := range d.Waves {
		total += len(w)
		assert.NotEmpty(t, w)
	}
	assert.Equal(t, len(tasks), total)
	assert.Len(t, d.Waves, 3)
}

func TestBuildDependentsIsReverseOfDependsOn(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Index: 0},
		{ID: "t2", Index: 1, DependsOn: []string{"t1"}},
	}

	d, err := NewBuilder().Build(tasks)
	require.NoError(t, err)

	assert.True(t, d.Nodes["t1"].Dependents["t2"])
	assert.True(t, d.Nodes["t2"].DependsOn["t1"])
}

func TestBuildAllIndependentYieldsOneWave(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Index: 0},
		{ID: "t2", Index: 1},
		{ID: "t3", Index: 2},
	}

	d, err := NewBuilder().Build(tasks)
	require.NoError(t, err)
	assert.Len(t, d.Waves, 1)
	assert.Len(t, d.Waves[0], 3)
}

func TestBuildDispatchOrderMatchesTaskIndex(t *testing.T) {
	tasks := []types.Task{
		{ID: "t3", Index: 2},
		{ID: "t1", Index: 0},
		{ID: "t2", Index: 1},
	}

	d, err := NewBuilder().Build(tasks)
	require.NoError(t, err)
	require.Len(t, d.Waves, 1)
	assert.Equal(t, "t1", d.Waves[0][0].Task.ID)
	assert.Equal(t, "t2", d.Waves[0][1].Task.ID)
	assert.Equal(t, "t3", d.Waves[0][2].Task.ID)
}

func TestBuildCycleDetected(t *testing.T) {
	tasks := []types.Task{
		{ID: "t1", Index: 0, DependsOn: []string{"t2"}},
		{ID: "t2", Index: 1, DependsOn: []string{"t1"}},
	}

	_, err := NewBuilder().Build(tasks)
	require.Error(t, err)

	var cycleErr *CycleDetectedError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"t1", "t2"}, cycleErr.RemainingIDs)
}

func TestBuildEmptyDecompositionYieldsNoWaves(t *testing.T) {
	d, err := NewBuilder().Build(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Waves)
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package decompose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-swarm/internal/types"
)

func TestDecomposeSingleFragment(t *testing.T) {
	d := New()
	got := d.Decompose("list files", types.Intent{Type: "general", Cluster: "research"})

	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "list files", got.Tasks[0].Description)
	assert.Empty(t, got.Tasks[0].DependsOn)
}

func TestDecomposeSequentialChain(t *testing.T) {
	d := New()
	got := d.Decompose(
		"research OAuth then build API then deploy to production",
		types.Intent{Type: "code", Cluster: "coding"},
	)

	require.Len(t, got.Tasks, 3)
	assert.Empty(t, got.Tasks[0].DependsOn)
	assert.Equal(t, []string{got.Tasks[0].ID}, got.Tasks[1].DependsOn)
	assert.Equal(t, []string{got.Tasks[1].ID}, got.Tasks[2].DependsOn)
	assert.False(t, got.HasParallelizable)
}

func TestDecomposeAllParallel(t *testing.T) {
	d := New()
	got := d.Decompose(
		"build API and write tests and deploy",
		types.Intent{Type: "code", Cluster: "coding"},
	)

	require.Len(t, got.Tasks, 3)
	for _, task := range got.Tasks {
		assert.Empty(t, task.DependsOn)
	}
	assert.True(t, got.HasParallelizable)
}

func TestDecomposeEveryDependsOnIndexIsEarlier(t *testing.T) {
	d := New()
	got := d.Decompose(
		"plan the rollout then build the service then deploy it then monitor it",
		types.Intent{Type: "devops", Cluster: "devops"},
	)

	idToIndex := make(map[string]int)
	for _, task := range got.Tasks {
		idToIndex[task.ID] = task.Index
	}
	for _, task := range got.Tasks {
		for _, dep := range task.DependsOn {
			assert.Less(t, idToIndex[dep], task.Index)
		}
	}
}

func TestDecomposePriorityCapped(t *testing.T) {
	d := New()
	got := d.Decompose(
		"deploy this extremely long and detailed infrastructure migration task with many words in it",
		types.Intent{Type: "devops", Cluster: "devops"},
	)

	for _, task := range got.Tasks {
		assert.LessOrEqual(t, task.Priority, 5)
		assert.GreaterOrEqual(t, task.Priority, 1)
	}
}

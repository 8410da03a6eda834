// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package memory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"open-swarm/internal/types"
)

func TestRecordPerformanceTruncatesToTail500OnOverflow(t *testing.T) {
	s := New(nil)
	for i := 0; i < MaxPerformanceLog+50; i++ {
		s.RecordPerformance(types.PerformanceRecord{TaskID: "t", Cluster: "coding"})
	}

	log := s.PerformanceLog()
	assert.Len(t, log, TailPerformanceLog)
}

func TestClusterAverageDurationNoHistoryReturnsFalse(t *testing.T) {
	s := New(nil)
	_, ok := s.ClusterAverageDuration("coding")
	assert.False(t, ok)
}

func TestClusterAverageDurationOnlyCountsSuccesses(t *testing.T) {
	s := New(nil)
	s.RecordPerformance(types.PerformanceRecord{Cluster: "coding", Success: true, Duration: 100 * time.Millisecond})
	s.RecordPerformance(types.PerformanceRecord{Cluster: "coding", Success: false, Duration: 900 * time.Millisecond})

	avg, ok := s.ClusterAverageDuration("coding")
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, avg)
}

func TestRecordPatternDedupesByKeyAndIncrementsCount(t *testing.T) {
	s := New(nil)
	s.RecordPattern("code:simple", "fast and reliable", 0.9, 50*time.Millisecond)
	s.RecordPattern("code:simple", "fast and reliable", 0.95, 40*time.Millisecond)
	s.RecordPattern("code:simple", "fast and reliable", 0.92, 45*time.Millisecond)

	patterns := s.Patterns()
	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].AppliedCount)
}

func TestFindSolutionsCaseInsensitiveSubstringMatch(t *testing.T) {
	s := New(nil)
	s.StoreSolution(types.TaskSolution{TaskDescription: "Build a REST API", Solution: "used code_agent_v2"})
	s.StoreSolution(types.TaskSolution{TaskDescription: "research OAuth flows", Solution: "used research_agent_v1"})

	matches := s.FindSolutions("rest api")
	require.Len(t, matches, 1)
	assert.Equal(t, "used code_agent_v2", matches[0].Solution)
}

func TestSaveLoadRoundTripsPerformanceAndPatternsAndSolutions(t *testing.T) {
	s := New(nil)
	s.RecordPerformance(types.PerformanceRecord{TaskID: "t1", AgentID: "code_agent_v2", Success: true, Duration: 10 * time.Millisecond})
	s.RecordPattern("code:simple", "fast", 0.9, 10*time.Millisecond)
	s.StoreSolution(types.TaskSolution{TaskDescription: "list files", Solution: "done"})

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, s.Save(path))

	fresh := New(nil)
	require.NoError(t, fresh.Load(path))

	assert.Equal(t, s.PerformanceLog(), fresh.PerformanceLog())
	assert.Equal(t, s.Patterns(), fresh.Patterns())
	assert.ElementsMatch(t, s.FindSolutions(""), fresh.FindSolutions(""))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	s := New(nil)
	err := s.Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.NoError(t, err)
	assert.Empty(t, s.PerformanceLog())
}

func TestSessionKVIsIndependentOfSnapshot(t *testing.T) {
	s := New(nil)
	s.SessionSet("foo", "bar")

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, s.Save(path))

	fresh := New(nil)
	require.NoError(t, fresh.Load(path))

	_, ok := fresh.SessionGet("foo")
	assert.False(t, ok)
}

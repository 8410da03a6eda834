// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package memory implements the four-layer Memory Store: a session KV
// cache that is never persisted, a capped performance log, a
// deduplicated pattern ledger, and a task-solution index. Save/Load
// round-trip the last three layers through a fixed JSON snapshot
// format using a plain file-based load/save idiom.
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"open-swarm/internal/types"
)

// MaxPerformanceLog and TailPerformanceLog implement the
// truncate-to-tail overflow policy: once the log exceeds
// MaxPerformanceLog entries, only the newest TailPerformanceLog are
// retained.
const (
	MaxPerformanceLog  = 1000
	TailPerformanceLog = 500

	sessionDefaultTTL = 30 * time.Minute
	sessionCleanup    = 10 * time.Minute
)

// Store is the Memory Store: session KV, performance log, pattern
// ledger, and task-solution index, guarded by a single mutex since the
// orchestrator drives one request at a time.
type Store struct {
	mu sync.Mutex

	session *cache.Cache // never persisted

	performance []types.PerformanceRecord

	patterns      map[string]*types.Pattern
	patternOrder  []string // insertion order, for stable iteration

	solutions []types.TaskSolution

	logger *slog.Logger
}

// New creates an empty Store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		session:  cache.New(sessionDefaultTTL, sessionCleanup),
		patterns: make(map[string]*types.Pattern),
		logger:   logger,
	}
}

// SessionSet stores a value in the never-persisted session KV layer.
func (s *Store) SessionSet(key string, value interface{}) {
	s.session.Set(key, value, cache.DefaultExpiration)
}

// SessionGet reads a value from the session KV layer.
func (s *Store) SessionGet(key string) (interface{}, bool) {
	return s.session.Get(key)
}

// RecordPerformance appends a PerformanceRecord, applying the
// truncate-to-tail-500 overflow policy atomically with respect to
// concurrent readers.
func (s *Store) RecordPerformance(rec types.PerformanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.performance = append(s.performance, rec)
	if len(s.performance) > MaxPerformanceLog {
		tail := s.performance[len(s.performance)-TailPerformanceLog:]
		s.performance = append([]types.PerformanceRecord(nil), tail...)
		s.logger.Info("performance log truncated", "retained", len(s.performance))
	}
}

// PerformanceLog returns a snapshot copy of the performance log.
func (s *Store) PerformanceLog() []types.PerformanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.PerformanceRecord, len(s.performance))
	copy(out, s.performance)
	return out
}

// ClusterAverageDuration returns the mean duration of successful
// records for the given cluster, and whether any history exists. The
// Learning System's "faster than cluster average" rule depends on this
// returning ok=false when no history exists yet.
func (s *Store) ClusterAverageDuration(cluster string) (avg time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total time.Duration
	var n int
	for _, r := range s.performance {
		if r.Cluster != cluster || !r.Success {
			continue
		}
		total += r.Duration
		n++
	}
	if n == 0 {
		return 0, false
	}
	return total / time.Duration(n), true
}

// RecordPattern inserts a new pattern or increments appliedCount for an
// existing key.
func (s *Store) RecordPattern(key, optimization string, quality float64, avgDuration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// UTC with no monotonic reading, so the timestamps compare equal
	// after a Save/Load round trip.
	now := time.Now().UTC()
	if p, exists := s.patterns[key]; exists {
		p.AppliedCount++
		p.LastApplied = &now
		p.AvgQuality = quality
		p.AvgDuration = avgDuration
		return
	}

	s.patterns[key] = &types.Pattern{
		Key:          key,
		Optimization: optimization,
		DiscoveredAt: now,
		AppliedCount: 1,
		AvgQuality:   quality,
		AvgDuration:  avgDuration,
	}
	s.patternOrder = append(s.patternOrder, key)
}

// Patterns returns the pattern ledger in insertion order.
func (s *Store) Patterns() []types.Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patternsLocked()
}

// patternsLocked is Patterns' body, callable by methods that already
// hold s.mu. s.mu is not reentrant, so Save must use this instead of
// calling the public Patterns and deadlocking on itself.
func (s *Store) patternsLocked() []types.Pattern {
	out := make([]types.Pattern, 0, len(s.patternOrder))
	for _, k := range s.patternOrder {
		out = append(out, *s.patterns[k])
	}
	return out
}

// StoreSolution appends a TaskSolution to the index.
func (s *Store) StoreSolution(sol types.TaskSolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solutions = append(s.solutions, sol)
}

// FindSolutions performs the reserved-for-embeddings keyword-match
// lookup: a linear scan for solutions whose TaskDescription contains
// query as a case-insensitive substring.
func (s *Store) FindSolutions(query string) []types.TaskSolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	var matches []types.TaskSolution
	for _, sol := range s.solutions {
		if strings.Contains(strings.ToLower(sol.TaskDescription), query) {
			matches = append(matches, sol)
		}
	}
	return matches
}

// Save writes the performance log, pattern ledger, and task-solution
// index to path as a fixed JSON snapshot document. Session memory is
// never included.
func (s *Store) Save(path string) error {
	s.mu.Lock()
	snapshot := types.Snapshot{
		PerformanceMemory: append([]types.PerformanceRecord(nil), s.performance...),
		SkillEvolution:    s.patternsLocked(),
		VectorMemory:      append([]types.TaskSolution(nil), s.solutions...),
		SavedAt:           time.Now().UnixMilli(),
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("memory: failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the JSON snapshot at path and replaces the performance
// log, pattern ledger, and task-solution index. A missing file is not
// an error: the store simply starts fresh.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("memory: failed to read snapshot: %w", err)
	}

	var snapshot types.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("memory: failed to parse snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.performance = append([]types.PerformanceRecord(nil), snapshot.PerformanceMemory...)

	s.patterns = make(map[string]*types.Pattern, len(snapshot.SkillEvolution))
	s.patternOrder = s.patternOrder[:0]
	for i := range snapshot.SkillEvolution {
		p := snapshot.SkillEvolution[i]
		s.patterns[p.Key] = &p
		s.patternOrder = append(s.patternOrder, p.Key)
	}

	s.solutions = append([]types.TaskSolution(nil), snapshot.VectorMemory...)

	return nil
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package worker provides concrete bodies for the opaque
// execute(task, agentIds, ctx) injection point. Simulator is the
// default deterministic-shape stand-in used when no real LLM backend
// is wired; OpenCode is the real-backend alternative.
package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/bitfield/script"
)

// Simulator is the default worker body: it sleeps a randomized
// duration in [50ms, 250ms) and builds a deterministic-shape output
// string, shelling the final formatting step through bitfield/script
// rather than hand-formatting it. The wave executor calls Execute from
// one goroutine per task within a wave, so rng is guarded by mu —
// *rand.Rand is not safe for concurrent use on its own.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a Simulator. Pass a seeded rng for deterministic
// tests; nil uses a time-seeded source.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Execute is the default dag.ExecuteFunc: sleep, then echo a line naming
// the first assigned agent and the task description.
func (s *Simulator) Execute(ctx context.Context, taskDescription string, agentIDs []string) (string, map[string]string, error) {
	s.mu.Lock()
	jitter := s.rng.Intn(200)
	s.mu.Unlock()
	delay := time.Duration(50+jitter) * time.Millisecond

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}

	agentID := "unassigned"
	if len(agentIDs) > 0 {
		agentID = agentIDs[0]
	}

	line := fmt.Sprintf("[%s] completed: %s", agentID, taskDescription)
	output, err := script.Echo(line).String()
	if err != nil {
		return "", nil, fmt.Errorf("simulator: failed to format output: %w", err)
	}

	return output, map[string]string{"agentID": agentID, "simulated": "true"}, nil
}

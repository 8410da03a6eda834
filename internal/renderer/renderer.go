// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package renderer implements the optional Renderer/Observer
// collaborator: structured pipeline events. The orchestrator emits
// per-wave dispatch events only (from the DAG executor); it does not
// emit stage-completion events. Its absence must not affect pipeline
// semantics, so every event method here is best-effort.
package renderer

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is one structured notification the orchestrator emits. Stage
// names match the ten pipeline stages; Wave is set only for per-wave
// dispatch events.
type Event struct {
	Stage     string    `json:"stage"`
	Detail    string    `json:"detail"`
	Wave      int       `json:"wave,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Observer is the Renderer collaborator interface. Implementations
// must not block the pipeline on slow sinks; Orchestrator.Execute does
// not wait on anything but in-process delivery.
type Observer interface {
	Observe(Event)
}

// Stdout logs each event via slog, routing progress through
// structured logging rather than raw stdout writes.
type Stdout struct {
	logger *slog.Logger
}

// NewStdout creates a Stdout observer. A nil logger uses slog.Default.
func NewStdout(logger *slog.Logger) *Stdout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stdout{logger: logger}
}

// Observe logs the event at Info level.
func (s *Stdout) Observe(e Event) {
	s.logger.Info("pipeline event", "stage", e.Stage, "detail", e.Detail, "wave", e.Wave)
}

// NATS publishes each event as JSON to a configured subject. Built
// with a nil connection it becomes a no-op, preserving "absence must
// not affect semantics" even when NATS wiring is only partially
// configured.
type NATS struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

// NewNATS creates a NATS observer. conn may be nil to produce a no-op
// observer (e.g. when no broker is configured for this deployment).
func NewNATS(conn *nats.Conn, subject string, logger *slog.Logger) *NATS {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATS{conn: conn, subject: subject, logger: logger}
}

// Observe publishes e as JSON. Marshal or publish failures are logged
// and swallowed; a broken observer must never fail the pipeline.
func (n *NATS) Observe(e Event) {
	if n.conn == nil {
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		n.logger.Warn("renderer: failed to marshal event", "error", err)
		return
	}

	if err := n.conn.Publish(n.subject, data); err != nil {
		n.logger.Warn("renderer: failed to publish event", "error", err)
	}
}

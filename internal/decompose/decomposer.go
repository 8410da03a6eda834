// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package decompose implements the Task Decomposer, stage 3 of the
// cognitive pipeline: it splits a free-form request into an ordered
// list of Task records and infers sequential-vs-parallel edges from
// connector words, using a regex split on connector words and
// sentence terminators.
package decompose

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"open-swarm/internal/types"
)

// connectors splits a request into fragments. sequenceMarkers is the
// subset that additionally introduces a dependsOn edge on the
// following fragment.
var (
	connectors = []string{"and", "then", "also", "plus", "with", "after"}

	// sequenceMarkers beyond "then"/"after" (once, when, finally, next)
	// can never actually be the preceding connector of a fragment since
	// the split regex below never splits on them — a documented quirk
	// of the source behaviour, not fixed here.
	sequenceMarkers = map[string]bool{
		"then":    true,
		"after":   true,
		"once":    true,
		"when":    true,
		"finally": true,
		"next":    true,
	}

	// connectorSplit matches any connector as a whole word, or a
	// sentence terminator followed by optional whitespace. Capturing
	// group 1 holds the connector token when one matched (empty for a
	// bare terminator), per the documented open question: the
	// connector assigned to a fragment may, for multi-terminator
	// input, actually belong two tokens away from where it is applied.
	connectorSplit = regexp.MustCompile(`(?i)\b(and|then|also|plus|with|after)\b|[.;]\s*`)
)

// fragment is one piece of the split request before it becomes a Task.
type fragment struct {
	text              string
	precedingConnector string
}

// Decomposer splits a raw request into a Decomposition.
type Decomposer struct{}

// New creates a Decomposer.
func New() *Decomposer {
	return &Decomposer{}
}

// Decompose splits raw on connectors and sentence terminators into
// Task records, inheriting type/cluster from the primary intent.
func (d *Decomposer) Decompose(raw string, primary types.Intent) types.Decomposition {
	fragments := split(raw)

	seen := make(map[string]bool)

	if len(fragments) == 0 {
		task := types.Task{
			ID:          freshID(seen),
			Index:       0,
			Description: strings.TrimSpace(raw),
			Type:        primary.Type,
			Cluster:     primary.Cluster,
			DependsOn:   nil,
			Status:      types.StatusPending,
			Priority:    priorityFor(primary.Type, raw),
		}
		return types.Decomposition{Tasks: []types.Task{task}}
	}

	tasks := make([]types.Task, 0, len(fragments))
	var previousID string
	rootCount := 0

	for i, f := range fragments {
		var deps []string
		if sequenceMarkers[f.precedingConnector] && previousID != "" {
			deps = []string{previousID}
		}
		if len(deps) == 0 {
			rootCount++
		}

		task := types.Task{
			ID:          freshID(seen),
			Index:       i,
			Description: f.text,
			Type:        primary.Type,
			Cluster:     primary.Cluster,
			DependsOn:   deps,
			Status:      types.StatusPending,
			Priority:    priorityFor(primary.Type, f.text),
		}
		tasks = append(tasks, task)
		previousID = task.ID
	}

	return types.Decomposition{
		Tasks:             tasks,
		HasParallelizable: rootCount >= 2,
	}
}

// split breaks raw into trimmed fragments, dropping fragments of
// length <= 2 or that are themselves bare connector words, and
// recording each surviving fragment's preceding connector token.
func split(raw string) []fragment {
	indices := connectorSplit.FindAllStringSubmatchIndex(raw, -1)

	var fragments []fragment
	cursor := 0
	precedingConnector := ""

	appendFragment := func(text, connector string) {
		text = strings.TrimSpace(text)
		if len(text) <= 2 {
			return
		}
		if isBareConnector(text) {
			return
		}
		fragments = append(fragments, fragment{text: text, precedingConnector: connector})
	}

	for _, idx := range indices {
		matchStart, matchEnd := idx[0], idx[1]
		piece := raw[cursor:matchStart]
		appendFragment(piece, precedingConnector)

		connectorToken := ""
		if idx[2] != -1 {
			connectorToken = strings.ToLower(raw[idx[2]:idx[3]])
		}
		precedingConnector = connectorToken
		cursor = matchEnd
	}
	appendFragment(raw[cursor:], precedingConnector)

	return fragments
}

func isBareConnector(text string) bool {
	lowered := strings.ToLower(text)
	for _, c := range connectors {
		if lowered == c {
			return true
		}
	}
	return false
}

// priorityFor computes 1..5 priority: base 1, +1 for code/devops
// intents, +1 for fragments longer than 10 words, capped at 5.
func priorityFor(intentType, fragment string) int {
	priority := 1
	if intentType == "code" || intentType == "devops" {
		priority++
	}
	if len(strings.Fields(fragment)) > 10 {
		priority++
	}
	if priority > 5 {
		priority = 5
	}
	return priority
}

// freshID returns an 8-hex-character task identifier derived from a
// uuid, regenerating on collision against ids already used in this
// decomposition. Collisions within a decomposition of this size are
// negligibly improbable but must still be detected per spec.
func freshID(seen map[string]bool) string {
	for {
		id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		if !seen[id] {
			seen[id] = true
			return id
		}
	}
}

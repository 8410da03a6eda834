// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package gate implements the permission gate collaborator: a
// predicate the orchestrator consults before a worker performs a
// side-effecting action. It uses a typed action identifier plus an
// explicit allow list, simplified to a plain boolean predicate with no
// audit log or gate-chain machinery — that belongs to the out-of-scope
// permission-prompt UI.
package gate

import "context"

// Action identifies a side-effecting operation a worker might attempt.
type Action string

const (
	ActionFileWrite      Action = "file:write"
	ActionFileDelete     Action = "file:delete"
	ActionFileRename     Action = "file:rename"
	ActionFileMove       Action = "file:move"
	ActionProcessExecute Action = "process:execute"
	ActionNetworkRequest Action = "network:request"
	ActionDeployTrigger  Action = "deploy:trigger"
	ActionConfigModify   Action = "config:modify"
	ActionSystemInstall  Action = "system:install"
)

var gatedActions = map[Action]bool{
	ActionFileWrite:      true,
	ActionFileDelete:     true,
	ActionFileRename:     true,
	ActionFileMove:       true,
	ActionProcessExecute: true,
	ActionNetworkRequest: true,
	ActionDeployTrigger:  true,
	ActionConfigModify:   true,
	ActionSystemInstall:  true,
}

// Decider is the permission gate contract the orchestrator consumes.
// Implementations decide whether an action against target may proceed;
// the core never caches the decision.
type Decider interface {
	MayPerform(action Action, target string) bool
}

// AllowAll approves every gated action. It is the default Decider when
// the caller supplies none, suitable for non-interactive runs.
type AllowAll struct{}

// MayPerform always returns true.
func (AllowAll) MayPerform(Action, string) bool { return true }

// DenyAll rejects every gated action it recognizes; unknown actions are
// still auto-approved.
type DenyAll struct{}

// MayPerform returns false for any action in the fixed gated set, true
// otherwise.
func (DenyAll) MayPerform(action Action, _ string) bool {
	return !gatedActions[action]
}

// IsGated reports whether action belongs to the fixed gated-action set.
// Actions outside the set are auto-approved regardless of the Decider.
func IsGated(action Action) bool {
	return gatedActions[action]
}

type contextKey struct{}

// WithDecider attaches d to ctx so that a worker body several layers
// deep (behind the fixed opaque execute(task, agentIds, ctx) contract)
// can still consult the permission gate without it being a parameter
// of that signature.
func WithDecider(ctx context.Context, d Decider) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext retrieves the Decider attached by WithDecider. Absent a
// prior WithDecider call it returns AllowAll, matching "unknown actions
// are auto-approved" when no gate was wired at all.
func FromContext(ctx context.Context) Decider {
	if d, ok := ctx.Value(contextKey{}).(Decider); ok {
		return d
	}
	return AllowAll{}
}

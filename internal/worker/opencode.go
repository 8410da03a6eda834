// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sst/opencode-sdk-go"
	"github.com/sst/opencode-sdk-go/option"
)

// OpenCode is the real-backend worker body: the one injection point an
// operator wires to an actual LLM, executing the task as a prompt
// against a running OpenCode server. Trimmed to the single
// ExecutePrompt path the opaque worker contract needs.
type OpenCode struct {
	sdk     *opencode.Client
	timeout time.Duration
}

// NewOpenCode creates an OpenCode worker body pointed at baseURL
// (typically a local "opencode serve" instance).
func NewOpenCode(baseURL string, timeout time.Duration) *OpenCode {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &OpenCode{
		sdk:     opencode.NewClient(option.WithBaseURL(baseURL)),
		timeout: timeout,
	}
}

// Execute sends the task description as a prompt, naming the assigned
// agent ids in the prompt context, and returns the session's reply.
func (o *OpenCode) Execute(ctx context.Context, taskDescription string, agentIDs []string) (string, map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Agents assigned: %s\nTask: %s", strings.Join(agentIDs, ", "), taskDescription)

	session, err := o.sdk.Session.New(ctx, opencode.SessionNewParams{
		Title: opencode.F(taskDescription),
	})
	if err != nil {
		return "", nil, fmt.Errorf("opencode: failed to create session: %w", err)
	}

	parts := []opencode.SessionPromptParamsPartUnion{
		opencode.TextPartInputParam{
			Type: opencode.F(opencode.TextPartInputTypeText),
			Text: opencode.F(prompt),
		},
	}

	message, err := o.sdk.Session.Prompt(ctx, session.ID, opencode.SessionPromptParams{
		Parts: opencode.F(parts),
	})
	if err != nil {
		return "", nil, fmt.Errorf("opencode: prompt execution failed: %w", err)
	}

	return message.Info.ID, map[string]string{"sessionID": session.ID}, nil
}

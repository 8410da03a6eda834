// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowAllApprovesEverything(t *testing.T) {
	var d Decider = AllowAll{}
	assert.True(t, d.MayPerform(ActionFileDelete, "/tmp/x"))
	assert.True(t, d.MayPerform(Action("unknown:action"), "anything"))
}

func TestDenyAllRejectsOnlyGatedActions(t *testing.T) {
	var d Decider = DenyAll{}
	assert.False(t, d.MayPerform(ActionDeployTrigger, "prod"))
	assert.True(t, d.MayPerform(Action("unknown:action"), "anything"))
}

func TestIsGatedMatchesFixedSet(t *testing.T) {
	assert.True(t, IsGated(ActionSystemInstall))
	assert.False(t, IsGated(Action("read:nothing")))
}

func TestFromContextWithNoPriorWithDeciderReturnsAllowAll(t *testing.T) {
	d := FromContext(context.Background())
	assert.True(t, d.MayPerform(ActionSystemInstall, "x"))
}

func TestFromContextReturnsWiredDecider(t *testing.T) {
	ctx := WithDecider(context.Background(), DenyAll{})
	d := FromContext(ctx)
	assert.False(t, d.MayPerform(ActionSystemInstall, "x"))
}

// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := New(nil)

	t.Run("no keywords falls back to general", func(t *testing.T) {
		got := c.Classify("list files")
		assert.Equal(t, "general", got.Type)
		assert.Equal(t, "research", got.Cluster)
		assert.Equal(t, 0.3, got.Confidence)
		assert.Empty(t, got.MatchedKeywords)
		assert.Empty(t, got.Secondary)
	})

	t.Run("single keyword yields partial confidence", func(t *testing.T) {
		got := c.Classify("please deploy this")
		assert.Equal(t, "devops", got.Type)
		require.Len(t, got.MatchedKeywords, 1)
		assert.InDelta(t, 1.0/3.0, got.Confidence, 0.0001)
	})

	t.Run("three or more keywords cap confidence at 1", func(t *testing.T) {
		got := c.Classify("build a REST api, implement the function and write code")
		assert.Equal(t, "code", got.Type)
		assert.Equal(t, "coding", got.Cluster)
		assert.Equal(t, 1.0, got.Confidence)
	})

	t.Run("mixed request produces secondary intents", func(t *testing.T) {
		got := c.Classify("research OAuth then build API then deploy to production")
		assert.NotEmpty(t, got.Secondary)
		for i := 1; i < len(got.Secondary); i++ {
			assert.GreaterOrEqual(t, got.Secondary[i-1].Confidence, got.Secondary[i].Confidence)
		}
	})

	t.Run("confidence never exceeds 1", func(t *testing.T) {
		got := c.Classify("code code code code code code function implement build api")
		assert.LessOrEqual(t, got.Confidence, 1.0)
	})
}

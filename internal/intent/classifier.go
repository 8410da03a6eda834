// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package intent implements the keyword-driven multi-label intent
// classifier, stage 2 of the cognitive pipeline.
package intent

import (
	"log/slog"
	"sort"
	"strings"

	"open-swarm/internal/types"
)

// pattern is one built-in intent's cluster and keyword set.
type pattern struct {
	intentType string
	cluster    string
	keywords   []string
}

// builtinPatterns is registration order; ties in confidence are broken
// by this order, matching the stable-sort requirement.
var builtinPatterns = []pattern{
	{
		intentType: "code",
		cluster:    "coding",
		keywords: []string{
			"code", "function", "implement", "build", "api", "refactor",
			"bug", "class", "write", "program",
		},
	},
	{
		intentType: "research",
		cluster:    "research",
		keywords: []string{
			"research", "find", "investigate", "explore", "learn",
			"understand", "survey", "compare",
		},
	},
	{
		intentType: "devops",
		cluster:    "devops",
		keywords: []string{
			"deploy", "infrastructure", "pipeline", "ci", "cd", "docker",
			"kubernetes", "server", "provision",
		},
	},
	{
		intentType: "design",
		cluster:    "uiux",
		keywords: []string{
			"design", "ui", "ux", "layout", "wireframe", "mockup",
			"interface", "style",
		},
	},
	{
		intentType: "analysis",
		cluster:    "analysis",
		keywords: []string{
			"analyze", "analyse", "metrics", "report", "data", "evaluate",
			"assess", "measure",
		},
	},
	{
		intentType: "planning",
		cluster:    "planning",
		keywords: []string{
			"plan", "roadmap", "schedule", "organize", "prioritize",
			"strategy",
		},
	},
}

// generalFallback is returned when no built-in pattern matches.
var generalFallback = types.Intent{
	Type:            "general",
	Cluster:         "research",
	Confidence:      0.3,
	MatchedKeywords: []string{},
	Secondary:       []types.SecondaryIntent{},
}

// match is an internal scoring record before the primary/secondary split.
type match struct {
	intentType string
	cluster    string
	confidence float64
	keywords   []string
}

// Classifier scores a raw request against the built-in intent patterns.
type Classifier struct {
	patterns []pattern
	logger   *slog.Logger
}

// New creates a Classifier using the built-in patterns.
func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{patterns: builtinPatterns, logger: logger}
}

// Classify scores the lowercased raw request against every built-in
// pattern and returns the primary intent plus any secondary matches.
func (c *Classifier) Classify(raw string) types.Intent {
	lowered := strings.ToLower(raw)

	var matches []match
	for _, p := range c.patterns {
		var hit []string
		for _, kw := range p.keywords {
			if strings.Contains(lowered, kw) {
				hit = append(hit, kw)
			}
		}
		if len(hit) == 0 {
			continue
		}
		confidence := minFloat(float64(len(hit))/3.0, 1.0)
		matches = append(matches, match{
			intentType: p.intentType,
			cluster:    p.cluster,
			confidence: confidence,
			keywords:   hit,
		})
	}

	if len(matches) == 0 {
		c.logger.Debug("intent classification fell back to general", "input", raw)
		return generalFallback
	}

	// Stable sort descending by confidence; ties keep registration order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].confidence > matches[j].confidence
	})

	primary := matches[0]
	secondary := make([]types.SecondaryIntent, 0, len(matches)-1)
	for _, m := range matches[1:] {
		secondary = append(secondary, types.SecondaryIntent{
			Type:       m.intentType,
			Cluster:    m.cluster,
			Confidence: m.confidence,
		})
	}

	result := types.Intent{
		Type:            primary.intentType,
		Cluster:         primary.cluster,
		Confidence:      primary.confidence,
		MatchedKeywords: primary.keywords,
		Secondary:       secondary,
	}

	c.logger.Info("intent classified",
		"type", result.Type,
		"cluster", result.Cluster,
		"confidence", result.Confidence,
		"secondaryCount", len(secondary))

	return result
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

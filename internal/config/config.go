// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"open-swarm/internal/types"
)

// ConfidenceAuthority selects which confidence-mutation path is active:
// the registry's local per-task nudge, the Learning System's batched
// deltas, or both additively.
type ConfidenceAuthority string

const (
	AuthorityRegistry ConfidenceAuthority = "registry"
	AuthorityLearning ConfidenceAuthority = "learning"
	AuthorityBoth     ConfidenceAuthority = "both"
)

// DefaultConfigPath is where Load looks when no path is given: a
// dotfile under the working directory.
const DefaultConfigPath = ".swarm/orchestrator.yaml"

// Config is the complete Orchestrator configuration.
type Config struct {
	Pool       PoolConfig       `yaml:"pool"`
	Memory     MemoryConfig     `yaml:"memory"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Renderer   RendererConfig   `yaml:"renderer"`
}

// PoolConfig controls the bounded Worker Pool.
type PoolConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// MemoryConfig controls the Memory Store's JSON snapshot persistence.
type MemoryConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// ConfidenceConfig bounds and authority settings for agent confidence.
type ConfidenceConfig struct {
	Min       float64              `yaml:"min"`
	Max       float64              `yaml:"max"`
	Authority ConfidenceAuthority  `yaml:"authority"`
}

// TelemetryConfig holds OpenTelemetry span export settings. They are
// loaded from YAML but not read by orchestrator.New, which creates no
// tracer provider from them.
type TelemetryConfig struct {
	ServiceName  string  `yaml:"service_name"`
	CollectorURL string  `yaml:"collector_url"`
	SamplingRate float64 `yaml:"sampling_rate"`
	Enabled      bool    `yaml:"enabled"`
}

// RendererConfig holds settings for the optional NATS-backed observer.
// They are loaded from YAML but not read by orchestrator.New, which
// connects no observer from them.
type RendererConfig struct {
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`
}

// DefaultConfig returns the built-in defaults used whenever a config
// file is absent or a field is left unset.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{MaxWorkers: 8},
		Memory: MemoryConfig{
			SnapshotPath: ".swarm/memory-snapshot.json",
		},
		Confidence: ConfidenceConfig{
			Min:       types.MinConfidence,
			Max:       types.MaxConfidence,
			Authority: AuthorityBoth,
		},
		Telemetry: TelemetryConfig{
			ServiceName:  "open-swarm-orchestrator",
			CollectorURL: "localhost:4318",
			SamplingRate: 1.0,
			Enabled:      false,
		},
	}
}

// Load reads the YAML configuration at path, overlaying it onto the
// built-in defaults. A missing file is not an error — matching the
// Memory Store's "absent file is a non-error" rule — and Load returns
// DefaultConfig() unchanged in that case.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Pool.MaxWorkers <= 0 {
		return fmt.Errorf("pool.max_workers must be positive")
	}
	if c.Confidence.Min < 0 || c.Confidence.Max > 1 || c.Confidence.Min >= c.Confidence.Max {
		return fmt.Errorf("confidence bounds must satisfy 0 <= min < max <= 1")
	}
	switch c.Confidence.Authority {
	case AuthorityRegistry, AuthorityLearning, AuthorityBoth:
	default:
		return fmt.Errorf("confidence.authority must be one of registry, learning, both")
	}
	if c.Memory.SnapshotPath == "" {
		return fmt.Errorf("memory.snapshot_path is required")
	}
	return nil
}

// SnapshotDir returns the directory holding the configured snapshot
// path. It does not create that directory.
func (c *Config) SnapshotDir() string {
	return filepath.Dir(c.Memory.SnapshotPath)
}

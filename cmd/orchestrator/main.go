// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Command orchestrator is a minimal demo entrypoint: it loads the
// orchestrator config, wires one Orchestrator, runs a single request
// through the ten-stage pipeline, and prints the result. It does not
// implement command-line parsing or a terminal UI; those are
// out-of-scope collaborators of the pipeline itself.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"open-swarm/internal/config"
	"open-swarm/internal/orchestrator"
)

const version = "0.1.0"

func main() {
	fmt.Printf("Open Swarm Orchestrator v%s\n", version)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	o := orchestrator.New(cfg, nil, logger)
	if err := o.LoadMemory(); err != nil {
		logger.Warn("failed to load memory snapshot", "error", err)
	}

	input := "research OAuth then build API then deploy to production"
	if len(os.Args) > 1 {
		input = os.Args[1]
	}

	resp, err := o.Execute(context.Background(), input, orchestrator.RequestContext{
		Session: "demo",
	})
	if err != nil {
		log.Fatalf("execution failed: %v", err)
	}

	fmt.Println(resp.Output)
	fmt.Printf("\nintent=%s cluster=%s complexity=%s agents=%d waves=%d duration=%s\n",
		resp.Pipeline.Intent.Type,
		resp.Pipeline.Intent.Cluster,
		resp.Pipeline.Complexity.Level,
		resp.Metrics.AgentsUsed,
		resp.Pipeline.Execution.Waves,
		resp.Metrics.Duration,
	)
}

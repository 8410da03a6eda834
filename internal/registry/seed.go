// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package registry

import "open-swarm/internal/types"

// builtinClusters and builtinAgents are the fixed external-interface
// seed data: six clusters, eleven agents. Kept bit-for-bit stable for
// reproducible test behaviour.
var builtinClusters = []types.Cluster{
	{ID: "research", Name: "Research", Description: "Investigation and information gathering"},
	{ID: "coding", Name: "Coding", Description: "Implementation and software construction"},
	{ID: "devops", Name: "DevOps", Description: "Infrastructure, deployment, and operations"},
	{ID: "uiux", Name: "UI/UX", Description: "Interface and experience design"},
	{ID: "analysis", Name: "Analysis", Description: "Data analysis and reporting"},
	{ID: "evaluation", Name: "Evaluation", Description: "Quality review and verification"},
}

var builtinAgents = []types.Agent{
	{
		ID: "research_agent_v1", Role: "researcher", Cluster: "research",
		Skills:           []string{"web_search", "summarization", "fact_checking"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium},
		ConfidenceScore:  0.75, AvgExecutionTime: 8.0,
	},
	{
		ID: "research_agent_v2", Role: "researcher", Cluster: "research",
		Skills:           []string{"deep_research", "citation", "synthesis"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.82, AvgExecutionTime: 15.0,
	},
	{
		ID: "code_agent_v1", Role: "engineer", Cluster: "coding",
		Skills:           []string{"python", "javascript", "refactoring"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium},
		ConfidenceScore:  0.80, AvgExecutionTime: 12.0,
	},
	{
		ID: "code_agent_v2", Role: "engineer", Cluster: "coding",
		Skills:           []string{"go", "api_design", "testing", "architecture"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.90, AvgExecutionTime: 18.0,
	},
	{
		ID: "devops_agent_v1", Role: "operator", Cluster: "devops",
		Skills:           []string{"docker", "kubernetes", "ci_cd"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.78, AvgExecutionTime: 20.0,
	},
	{
		ID: "devops_agent_v2", Role: "operator", Cluster: "devops",
		Skills:           []string{"terraform", "monitoring", "incident_response"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelComplex},
		ConfidenceScore:  0.70, AvgExecutionTime: 25.0,
	},
	{
		ID: "design_agent_v1", Role: "designer", Cluster: "uiux",
		Skills:           []string{"wireframing", "prototyping", "accessibility"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium},
		ConfidenceScore:  0.72, AvgExecutionTime: 10.0,
	},
	{
		ID: "analysis_agent_v1", Role: "analyst", Cluster: "analysis",
		Skills:           []string{"statistics", "visualization", "reporting"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.76, AvgExecutionTime: 14.0,
	},
	{
		ID: "analysis_agent_v2", Role: "analyst", Cluster: "analysis",
		Skills:           []string{"data_mining", "forecasting"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.68, AvgExecutionTime: 16.0,
	},
	{
		ID: "evaluation_agent_v1", Role: "reviewer", Cluster: "evaluation",
		Skills:           []string{"code_review", "qa", "compliance"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelSimple, types.LevelMedium, types.LevelComplex},
		ConfidenceScore:  0.85, AvgExecutionTime: 9.0,
	},
	{
		ID: "evaluation_agent_v2", Role: "reviewer", Cluster: "evaluation",
		Skills:           []string{"security_review", "performance_review"},
		SupportedLevels:  []types.ComplexityLevel{types.LevelComplex},
		ConfidenceScore:  0.73, AvgExecutionTime: 22.0,
	},
}

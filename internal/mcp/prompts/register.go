package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "triage_traffic_log",
		Description: "RECOMMENDED: Validate a captured HAR log against an API description and explain every failing entry. Provides the workflow and how to read verdicts.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "api_description",
				Description: "Path to the API description file",
				Required:    false,
			},
			{
				Name:        "log",
				Description: "Path to the HAR traffic log",
				Required:    false,
			},
		},
	}, HandleTriage(cfg))
}

package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleTriage implements the triage workflow.
func HandleTriage(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		descPath := "<api_description>"
		logPath := "<log>"
		if req != nil && req.Params != nil && req.Params.Arguments != nil {
			if v := req.Params.Arguments["api_description"]; v != "" {
				descPath = v
			}
			if v := req.Params.Arguments["log"]; v != "" {
				logPath = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Triage a Traffic Log\n\n")
		sb.WriteString("You are checking whether captured HTTP traffic conforms to an API description. ")
		sb.WriteString("Each log entry is matched to the endpoints defined for its method and URL, and passes when at least one candidate accepts both its request and its response.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Get the overview** - run validation with only failures returned\n")
		sb.WriteString("2. **Read the common errors** - one root cause often explains many entries\n")
		sb.WriteString("3. **Drill into failures** - rerun with details for the entries you cannot explain yet\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString(fmt.Sprintf("harcheck_validate(api_description=%q, log=%q, only_failures=true)\n", descPath, logPath))
		sb.WriteString(fmt.Sprintf("harcheck_validate(api_description=%q, log=%q, only_failures=true, include_details=true)\n", descPath, logPath))
		sb.WriteString("```\n\n")

		sb.WriteString("## Reading Verdicts\n\n")
		sb.WriteString("| Verdict | Meaning | Usual fix |\n")
		sb.WriteString("|---------|---------|-----------|\n")
		sb.WriteString("| `Valid` | a candidate accepted request and response | none |\n")
		sb.WriteString("| `Not found!` | no endpoint is defined for this method and URL | add the endpoint, or check the URL template |\n")
		sb.WriteString("| `Not valid!` | every candidate rejected the request or the response | compare `details` with the description |\n\n")
		sb.WriteString("An entry with an `error` field failed because a candidate could not be evaluated at all (for example a schema that does not compile). Fix the description first.\n\n")

		if len(cfg.IgnoreHeaderValues) > 0 {
			sb.WriteString("## Volatile Headers\n\n")
			sb.WriteString("These headers must be present when expected, but their values are never compared: ")
			sb.WriteString(strings.Join(cfg.IgnoreHeaderValues, ", "))
			sb.WriteString("\n\n")
		}

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Summary**: pass/fail counts and the one or two dominant causes\n")
		sb.WriteString("2. **Failures by cause**: group entries by common error, list entry indexes\n")
		sb.WriteString("3. **Recommended changes**: say whether the traffic or the description should change\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for triaging a traffic log against an API description",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

// Package prompts contains MCP prompt implementations for harcheck.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	IgnoreHeaderValues []string
}

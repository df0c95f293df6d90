// Package tools contains MCP tool implementations for harcheck.
package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "harcheck_validate",
		Description: "Validate every entry of a HAR traffic log against an API description. Returns pass/fail counts and one verdict per entry (Valid, Not found!, Not valid!). Set only_failures=true to skip passing entries and include_details=true to see why each candidate endpoint was rejected.",
	}, ToolValidate(d))
}

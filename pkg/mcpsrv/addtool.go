package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harcheck/internal/mcp/tools"
)

// AddTool registers a tool with the server, validating that the output type's
// zero value passes the SDK's JSON schema check. Go's json.Marshal serializes
// nil slices as null while the SDK infers "type": "array" from the Go type,
// so such outputs would fail validation on every call.
//
// If the zero value of Out fails schema validation, AddTool panics with a
// message naming the field to fix.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

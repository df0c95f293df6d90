// Package mcpsrv embeds the harcheck validator as an MCP server.
//
// The server exposes the harcheck_validate tool, which checks a HAR traffic
// log against an API description, and a triage prompt that walks a client
// through the results. Users can extend the server with their own tools and
// prompts using functional options.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Tools that need the validation pipeline receive it through Deps:
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_failures", Description: "Count failing entries"},
//	    func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            results, err := d.App.Validate(ctx, in.APIDescription, in.Log)
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            n := 0
//	            for _, r := range results {
//	                if !r.Passed {
//	                    n++
//	                }
//	            }
//	            return nil, CountOutput{Failures: n}, nil
//	        }
//	    },
//	)
//
// # Configuration
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/harcheck.log"),
//	)
package mcpsrv

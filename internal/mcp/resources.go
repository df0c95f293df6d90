package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yosida95/uritemplate/v3"

	"github.com/usestring/harcheck/internal/loader"
	"github.com/usestring/harcheck/internal/mcp/tools"
)

// Resource URI scheme: harcheck://
//
//	harcheck://endpoints/{+path}   endpoints of the description at path
//
// An absolute path keeps its leading slash: harcheck://endpoints//srv/api.yaml.
const endpointsTemplate = "harcheck://endpoints/{+path}"

var endpointsURI = uritemplate.MustNew(endpointsTemplate)

// EndpointListing is the content of an endpoints resource.
type EndpointListing struct {
	Name      string            `json:"name,omitempty"`
	Path      string            `json:"path"`
	Endpoints []EndpointSummary `json:"endpoints"`
}

// EndpointSummary describes one endpoint as the resolver sees it.
type EndpointSummary struct {
	Title    string `json:"title"`
	Method   string `json:"method"`
	URL      string `json:"url"`
	Statuses []int  `json:"statuses,omitempty"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: endpointsTemplate,
		Name:        "API Endpoints",
		Description: "Endpoints defined by an API description, with method, URL template and expected statuses. Read this when entries are reported as Not found!.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceEndpoints)
}

func (s *Server) handleResourceEndpoints(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	path, err := parseEndpointsURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	desc, err := loader.LoadDescription(path)
	if err != nil {
		return nil, tools.WrapRunError(err)
	}

	listing := EndpointListing{
		Name:      desc.Name,
		Path:      path,
		Endpoints: make([]EndpointSummary, 0, len(desc.Endpoints)),
	}
	for _, e := range desc.Endpoints {
		summary := EndpointSummary{
			Title:  e.Title(),
			Method: e.Method,
			URL:    e.URL,
		}
		for _, r := range e.Responses {
			if r.StatusCode != 0 {
				summary.Statuses = append(summary.Statuses, r.StatusCode)
			}
		}
		listing.Endpoints = append(listing.Endpoints, summary)
	}

	return toResourceResult(req.Params.URI, listing)
}

// parseEndpointsURI extracts the description path from an endpoints URI.
func parseEndpointsURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, "harcheck://") {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected harcheck://")
	}
	values := endpointsURI.Match(uri)
	if values == nil {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}
	path := values.Get("path").String()
	if path == "" {
		return "", tools.ErrInvalidInput("endpoints URI requires a description path")
	}
	return path, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}

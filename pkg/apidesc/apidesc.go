// Package apidesc defines the API description harcheck validates traffic
// against: a list of endpoints, each with one expected request and one or
// more expected responses.
package apidesc

import (
	"fmt"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/usestring/harcheck/pkg/har"
)

// Description is a parsed API description document.
type Description struct {
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Endpoints []*Endpoint `json:"endpoints" yaml:"endpoints"`
}

// Endpoint is one method + URL template with its expected messages.
type Endpoint struct {
	Name      string              `json:"name,omitempty" yaml:"name,omitempty"`
	Method    string              `json:"method" yaml:"method"`
	URL       string              `json:"url" yaml:"url"` // RFC 6570 template, e.g. /users/{id}
	Request   ExpectedRequest     `json:"request" yaml:"request"`
	Responses []*ExpectedResponse `json:"responses" yaml:"responses"`

	template *uritemplate.Template
}

// ExpectedRequest is the request an endpoint expects.
type ExpectedRequest struct {
	Headers har.Headers `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string      `json:"body,omitempty" yaml:"body,omitempty"`
	Content string      `json:"content,omitempty" yaml:"content,omitempty"` // alias of Body
	Schema  string      `json:"schema,omitempty" yaml:"schema,omitempty"`   // JSON Schema for the body
}

// ExpectedResponse is one response an endpoint may produce.
type ExpectedResponse struct {
	StatusCode int         `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Headers    har.Headers `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string      `json:"body,omitempty" yaml:"body,omitempty"`
	Content    string      `json:"content,omitempty" yaml:"content,omitempty"`
	Schema     string      `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// BodyText returns the expected request body, preferring Body over Content.
func (r *ExpectedRequest) BodyText() string {
	if r.Body != "" {
		return r.Body
	}
	return r.Content
}

// BodyText returns the expected response body, preferring Body over Content.
func (r *ExpectedResponse) BodyText() string {
	if r.Body != "" {
		return r.Body
	}
	return r.Content
}

// Title returns a human-readable name for the endpoint.
func (e *Endpoint) Title() string {
	if e.Name != "" {
		return e.Name
	}
	return strings.ToUpper(e.Method) + " " + e.URL
}

// Template returns the compiled URL template. Compile must have succeeded.
func (e *Endpoint) Template() *uritemplate.Template {
	return e.template
}

// Compile parses every endpoint's URL template. It must be called once,
// before the description is shared between goroutines.
func (d *Description) Compile() error {
	for i, ep := range d.Endpoints {
		if ep == nil {
			return fmt.Errorf("endpoint %d: empty definition", i)
		}
		if ep.Method == "" {
			return fmt.Errorf("endpoint %d (%s): method is required", i, ep.URL)
		}
		tmpl, err := uritemplate.New(ep.URL)
		if err != nil {
			return fmt.Errorf("endpoint %d (%s): invalid url template: %w", i, ep.URL, err)
		}
		ep.template = tmpl
		if len(ep.Responses) == 0 {
			// An endpoint without declared responses accepts any response.
			ep.Responses = []*ExpectedResponse{{}}
		}
	}
	return nil
}

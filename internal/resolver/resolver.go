// Package resolver finds the endpoint definitions that match a captured
// request's URL and method.
package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/harcheck/pkg/apidesc"
)

// Candidate is one expected request/response pair proposed for an entry.
type Candidate struct {
	Endpoint      *apidesc.Endpoint
	Response      *apidesc.ExpectedResponse
	ResponseIndex int
}

// Name identifies the candidate in logs and diagnostics.
func (c Candidate) Name() string {
	if len(c.Endpoint.Responses) <= 1 {
		return c.Endpoint.Title()
	}
	return fmt.Sprintf("%s #%d", c.Endpoint.Title(), c.ResponseIndex+1)
}

// Resolver indexes a compiled description by method. Endpoint positions in
// the description are the document IDs, so bitmap iteration order is
// description order. It is read-only after New and safe for concurrent use.
type Resolver struct {
	endpoints []*apidesc.Endpoint
	idxMethod map[string]*roaring.Bitmap
}

// New builds the method index. The description must already be compiled.
func New(desc *apidesc.Description) *Resolver {
	r := &Resolver{
		endpoints: desc.Endpoints,
		idxMethod: make(map[string]*roaring.Bitmap),
	}
	for i, ep := range desc.Endpoints {
		method := strings.ToUpper(ep.Method)
		bm, exists := r.idxMethod[method]
		if !exists {
			bm = roaring.New()
			r.idxMethod[method] = bm
		}
		bm.Add(uint32(i))
	}
	return r
}

// Resolve returns every candidate whose endpoint accepts the method and URL,
// one per expected response, in description order. An empty result means no
// endpoint is defined for the request.
func (r *Resolver) Resolve(rawURL, method string) []Candidate {
	bm := r.idxMethod[strings.ToUpper(method)]
	if bm == nil || bm.IsEmpty() {
		return nil
	}

	target := parseTarget(rawURL)

	var candidates []Candidate
	iter := bm.Iterator()
	for iter.HasNext() {
		ep := r.endpoints[iter.Next()]
		if !target.matches(ep) {
			continue
		}
		for i, resp := range ep.Responses {
			candidates = append(candidates, Candidate{
				Endpoint:      ep,
				Response:      resp,
				ResponseIndex: i,
			})
		}
	}
	return candidates
}

// EndpointCount returns the number of indexed endpoints for a method.
func (r *Resolver) EndpointCount(method string) int {
	bm := r.idxMethod[strings.ToUpper(method)]
	if bm == nil {
		return 0
	}
	return int(bm.GetCardinality())
}

// target is a captured URL split into the forms templates are matched against.
type target struct {
	origin string // scheme://host, empty for relative URLs
	path   string
	query  string
}

func parseTarget(rawURL string) target {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		path, query, _ := strings.Cut(rawURL, "?")
		return target{path: path, query: query}
	}

	t := target{path: parsed.EscapedPath(), query: parsed.RawQuery}
	if t.path == "" {
		t.path = "/"
	}
	if parsed.Scheme != "" && parsed.Host != "" {
		t.origin = parsed.Scheme + "://" + parsed.Host
	}
	return t
}

// matches tries the path with its query first, then the bare path, so that
// query parameters the template does not declare never block a match.
func (t target) matches(ep *apidesc.Endpoint) bool {
	tmpl := ep.Template()
	if tmpl == nil {
		return false
	}

	base := t.path
	if isAbsolute(ep.URL) {
		if t.origin == "" {
			return false
		}
		base = t.origin + t.path
	}

	if t.query != "" && tmpl.Match(base+"?"+t.query) != nil {
		return true
	}
	return tmpl.Match(base) != nil
}

func isAbsolute(template string) bool {
	return strings.HasPrefix(template, "http://") || strings.HasPrefix(template, "https://")
}

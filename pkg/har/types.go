// Package har provides the typed view of a captured traffic log entry.
// Only the fields harcheck validates are modelled; unknown fields are ignored
// when decoding.
package har

import (
	"encoding/base64"
	"strings"
)

// Content encodings used by HAR content objects.
const (
	EncodingBase64 = "base64"
)

// Header is a single header record. Captured logs key records by "name";
// API descriptions key them by "key". Both are accepted.
type Header struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
	Value string `json:"value" yaml:"value"`
}

// HeaderName returns the record's name, falling back to its key.
func (h Header) HeaderName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.Key
}

// Headers is an ordered list of header records.
type Headers []Header

// Get returns the last value for the given header name (case-insensitive).
// Returns an empty string if the header is not found.
func (h Headers) Get(name string) string {
	var value string
	for _, rec := range h {
		if strings.EqualFold(rec.HeaderName(), name) {
			value = rec.Value
		}
	}
	return value
}

// PostData is the request body of a captured entry.
type PostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Request is the captured request side of an entry.
type Request struct {
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	HTTPVersion string    `json:"httpVersion"`
	Headers     Headers   `json:"headers"`
	PostData    *PostData `json:"postData"`
}

// Body returns the request body text, or "" when the request carried none.
func (r Request) Body() string {
	if r.PostData == nil {
		return ""
	}
	return r.PostData.Text
}

// Content is the response body of a captured entry.
type Content struct {
	Size     int    `json:"size"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Encoding string `json:"encoding,omitempty"`
}

// Decoded returns the body text, base64-decoding it when the capture says so.
func (c Content) Decoded() (string, error) {
	if c.Encoding != EncodingBase64 || c.Text == "" {
		return c.Text, nil
	}
	b, err := base64.StdEncoding.DecodeString(c.Text)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Response is the captured response side of an entry.
type Response struct {
	Status      int     `json:"status"`
	StatusText  string  `json:"statusText"`
	HTTPVersion string  `json:"httpVersion"`
	Headers     Headers `json:"headers"`
	Content     Content `json:"content"`
}

// Entry is one captured request/response pair.
type Entry struct {
	Index    int      `json:"-"` // position in the log, zero-based
	Request  Request  `json:"request"`
	Response Response `json:"response"`

	// DecodeErr is set when the captured element did not fit the HAR types.
	// Request.URL and Request.Method are still filled when they are strings.
	DecodeErr error `json:"-"`
}

// Label identifies the entry in reports: "<url> (<method>)".
func (e *Entry) Label() string {
	return e.Request.URL + " (" + e.Request.Method + ")"
}

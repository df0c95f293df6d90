// Package contenttype classifies Content-Type header values.
package contenttype

import (
	"mime"
	"strings"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON    Category = "json"
	XML     Category = "xml"
	HTML    Category = "html"
	Form    Category = "form"
	Text    Category = "text"
	Binary  Category = "binary"
	Unknown Category = ""
)

// MediaType returns the lower-cased media type of a header value with its
// parameters (charset, boundary, ...) stripped. Malformed values are
// lower-cased and cut at the first ';'.
func MediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mediaType
}

// SameMediaType reports whether two header values name the same media type.
func SameMediaType(a, b string) bool {
	return MediaType(a) == MediaType(b)
}

// Classify returns the broad content category for a content-type header
// value. Empty values are Unknown.
func Classify(contentType string) Category {
	if strings.TrimSpace(contentType) == "" {
		return Unknown
	}
	mediaType := MediaType(contentType)

	switch {
	// application/json, application/vnd.*+json, application/problem+json
	case strings.Contains(mediaType, "json"):
		return JSON
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return HTML
	case strings.Contains(mediaType, "xml"):
		return XML
	case mediaType == "application/x-www-form-urlencoded":
		return Form
	case strings.HasPrefix(mediaType, "text/"),
		strings.Contains(mediaType, "yaml"),
		strings.Contains(mediaType, "javascript"):
		return Text
	}
	return Binary
}

// IsJSON returns true if the content type indicates JSON (case-insensitive).
func IsJSON(contentType string) bool {
	return Classify(contentType) == JSON
}
